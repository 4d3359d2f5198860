// Package cli holds the terminal plumbing shared by the authsession
// commands: typed errors with exit codes, table/JSON/YAML/template output,
// credential prompts and progress spinners.
//
// # Exit codes
//
//	0  success
//	1  any other error
//	2  no session (AuthRequiredError)
//	3  credentials rejected (AuthFailedError)
//
// # Output
//
// Printer renders a value as a rounded go-pretty table, indented JSON,
// YAML (sigs.k8s.io/yaml, so json tags apply) or a Go template with the
// sprig function map:
//
//	p := cli.NewPrinter(os.Stdout, cli.OutputFormatTable, false)
//	p.PrintKeyValues(map[string]any{"id": 1, "name": "jane"})
//
// # Prompts
//
// Prompter abstracts interactive input. ReadlinePrompter reads lines and
// hidden passwords from the terminal with chzyer/readline.
package cli
