// Package core provides the business logic for roster bulk imports.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Pipeline
//
// An upload moves through three stages:
//
//   - [Parse] splits the file into [RawRow] values and resolves the header
//     against a [Profile]'s field aliases. An empty file or a missing
//     required column stops the pipeline here.
//   - [ValidateAll] checks every field of every row and returns exactly one
//     [ValidatedRow] per data line, collecting all problems of a row.
//   - [Reconcile] sends the valid rows to a [RowStore] one at a time and
//     folds validation and persistence failures into an [ImportResult].
//
// [Service] ties the stages together around an explicit confirmation step:
// [Service.CreatePreview] parses and validates, [Service.ConfirmImport]
// persists.
//
// # Profiles
//
// Profiles are registered at init time using [Register]:
//
//	core.Register(core.Profile{
//	    Key:   "roster",
//	    Label: "Roster and fees",
//	    Fields: []core.FieldSpec{
//	        {Name: "name", Required: true, Aliases: []string{"nombre"},
//	            Rule: core.Rule{Kind: core.RuleText}},
//	        {Name: "monthly_fee", Required: true, Aliases: []string{"mensualidad"},
//	            Rule: core.Rule{Kind: core.RuleMoney}},
//	    },
//	})
//
// The profiles package registers the students and roster profiles.
//
// # Errors
//
// Structural failures are returned as [*EmptyFileError] and
// [*MissingColumnsError], which match [ErrEmptyFile] and [ErrMissingColumns]
// through errors.Is. Row-level failures never surface as Go errors; they are
// carried in [ValidatedRow.Errors] and [ImportResult.Errors]. [MapError]
// turns any error into a [UserMessage] with a support code.
//
// # Concurrency
//
// [ImportLimiter] bounds how many imports write to the store at once and
// makes sure a preview is imported at most once at a time.
package core
