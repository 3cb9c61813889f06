package profiles

import "github.com/JonMunkholm/rosterimport/internal/core"

func init() {
	registerRoster()
}

func registerRoster() {
	core.Register(core.Profile{
		Key:   "roster",
		Label: "Roster and fees",
		Fields: []core.FieldSpec{
			{
				Name: "name", Label: "Name", Required: true,
				Aliases: []string{"name", "student", "athlete", "nombre", "alumno", "deportista"},
				Rule:    core.Rule{Kind: core.RuleText, MinLen: 2, MaxLen: 100},
			},
			{
				Name: "parent", Label: "Parent", Required: true,
				Aliases: []string{"parent", "parent name", "guardian", "acudiente", "padre", "madre", "tutor"},
				Rule:    core.Rule{Kind: core.RuleText, MinLen: 2, MaxLen: 100},
			},
			{
				Name: "phone", Label: "Phone", Required: true,
				Aliases: []string{"phone", "telefono", "celular", "movil", "mobile"},
				Rule:    core.Rule{Kind: core.RulePhone},
			},
			{
				Name: "monthly_fee", Label: "Monthly fee", Required: true,
				Aliases: []string{"monthly fee", "monthlyfee", "fee", "mensualidad", "cuota", "tuition"},
				Rule:    core.Rule{Kind: core.RuleMoney, Ceiling: core.DefaultFeeCeiling},
			},
		},
		Example: [][]string{
			{"Juan Pérez", "María Pérez", "3001234567", "150000"},
		},
	})
}
