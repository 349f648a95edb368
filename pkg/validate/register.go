package validate

// RegisterBuiltins registers all built-in rules with the given registry.
func RegisterBuiltins(registry *Registry) {
	registry.Register(NewMetaVersionRule())    // NMC001
	registry.Register(NewDirectiveNameRule())  // NMC002
	registry.Register(NewTableShapeRule())     // NMC003
	registry.Register(NewFigureSourceRule())   // NMC004
	registry.Register(NewDefinitionPairRule()) // NMC005
	registry.Register(NewMetaRequiredRule())   // NMC006
	registry.Register(NewCodeLanguageRule())   // NMC007
}
