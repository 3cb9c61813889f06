package profiles

import (
	"regexp"

	"github.com/JonMunkholm/rosterimport/internal/core"
)

func init() {
	registerStudents()
}

var gradePattern = regexp.MustCompile(`^[0-9]{1,2} ?[A-Za-z]?$`)

func registerStudents() {
	core.Register(core.Profile{
		Key:   "students",
		Label: "Students",
		Fields: []core.FieldSpec{
			{
				Name: "full_name", Label: "Full name", Required: true,
				Aliases: []string{"full name", "name", "student name", "nombre completo", "nombre", "estudiante", "alumno"},
				Rule:    core.Rule{Kind: core.RuleText, MinLen: 2, MaxLen: 100},
			},
			{
				Name: "email", Label: "Email",
				Aliases: []string{"email", "e-mail", "correo", "correo electronico"},
				Rule:    core.Rule{Kind: core.RuleEmail, Optional: true},
			},
			{
				Name: "phone", Label: "Phone", Required: true,
				Aliases: []string{"phone", "telefono", "celular", "movil", "mobile"},
				Rule:    core.Rule{Kind: core.RulePhone},
			},
			{
				Name: "date_of_birth", Label: "Date of birth",
				Aliases: []string{"date of birth", "birth date", "birthdate", "fecha de nacimiento", "nacimiento"},
				Rule:    core.Rule{Kind: core.RuleDate, Optional: true},
			},
			{
				Name: "gender", Label: "Gender",
				Aliases: []string{"gender", "sex", "genero", "sexo"},
				Rule:    core.Rule{Kind: core.RuleEnum, Optional: true, EnumValues: []string{"M", "F", "Other"}},
			},
			{
				Name: "grade", Label: "Grade",
				Aliases: []string{"grade", "grado", "curso", "class"},
				Rule: core.Rule{
					Kind: core.RuleText, Optional: true, MinLen: 1, MaxLen: 20,
					Pattern: gradePattern, PatternHint: "6A or 11",
				},
			},
			{
				Name: "parent_name", Label: "Parent name",
				Aliases: []string{"parent name", "guardian name", "nombre acudiente", "acudiente"},
				Rule:    core.Rule{Kind: core.RuleText, Optional: true, MinLen: 2, MaxLen: 100},
			},
			{
				Name: "parent_email", Label: "Parent email",
				Aliases: []string{"parent email", "guardian email", "correo acudiente"},
				Rule:    core.Rule{Kind: core.RuleEmail, Optional: true},
			},
			{
				Name: "parent_phone", Label: "Parent phone",
				Aliases: []string{"parent phone", "guardian phone", "telefono acudiente", "celular acudiente"},
				Rule:    core.Rule{Kind: core.RulePhone, Optional: true},
			},
		},
		Example: [][]string{
			{"Juan Pérez", "juan@example.com", "3001234567", "2012-04-18", "M", "6A", "María Pérez", "maria@example.com", "3109876543"},
			{"Ana Gómez", "", "3015550199", "15/09/2013", "F", "5B", "", "", ""},
		},
	})
}
