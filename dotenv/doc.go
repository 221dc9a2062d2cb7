// Package dotenv reads and writes KEY=VALUE environment files.
//
// # File Format
//
//   - One KEY=VALUE assignment per line, split on the first '='
//   - Blank lines, lines starting with '#' and lines without '=' are ignored
//   - Keys and values are trimmed
//   - A value wrapped in matching single or double quotes is unquoted and its
//     backslash escapes are decoded; unquoted values are used verbatim
//   - ${NAME} references are expanded on read: the process environment wins,
//     then the same file, then the empty string. Expansion is a single pass.
//
// # Example
//
//	path, err := dotenv.Find("", ".env")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := dotenv.Load(path); err != nil {
//		log.Fatal(err)
//	}
//
//	entry, err := dotenv.Set(path, "PORT", "8080", dotenv.QuoteAuto)
//
// Set and Unset rewrite the whole file through a temporary file that is
// renamed over the target, so a crash never leaves a half-written file.
//
// Nothing in this package is safe for concurrent use with writers of the same
// file or with other goroutines mutating the process environment.
package dotenv
