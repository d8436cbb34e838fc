// Package config loads the static doxprep configuration.
//
// A [Config] describes which Markdown sources become .dox files, where the
// Doxygen XML output lives, and the m.css theme settings handed to the
// documentation generator. It is loaded once at startup with [Load] and never
// mutated afterwards.
//
// Files may be YAML (.yaml, .yml) or TOML (.toml). Before decoding, every file
// is validated against the JSON Schema returned by [Schema], which is derived
// from the Go types in this package:
//
//	examples:
//	  root: ../examples
//	  output: examples
//	  sources:
//	    - path: ReadMe.md
//	      mode: aggregate
//	    - path: a_wild_card/ReadMe.md
//	      mode: per-example
//	xml:
//	  dir: ../../Arduino-SDI-12Doxygen/xml
//	  suffix: 8ino-example.xml
//
// Fields left out of a file keep the values from [Default].
package config
