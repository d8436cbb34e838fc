// Package prefilter rewrites Markdown documentation into Doxygen markup one
// line at a time.
//
// Doxygen commands are hidden inside Markdown link-reference comments so that
// they stay invisible on GitHub:
//
//	[//]: # ( @page specifications The SDI-12 Specification )
//	# The SDI-12 Specification
//
// A [Filter] strips the comment envelope to expose the command, maps fenced
// code blocks to @code/@endcode, and drops the Markdown heading that follows a
// page or section command so the title is not listed twice in the generated
// table of contents.
//
// Content meant only for GitHub readers is fenced with two sentinel comments,
// [StartGitHubOnly] and [EndGitHubOnly]. Everything between them is dropped,
// including the sentinel lines themselves.
//
// Filtering is a fold over the input lines with a small [State] value. Every
// call to [Filter.Transform] or [Filter.Copy] starts from a fresh [State], so a
// single [Filter] may be shared across goroutines.
//
// # Modes
//
// [ModeAggregate] output keeps @page commands as written. [ModePerExample]
// output rewrites @page to @section, because each example document already
// owns a page of its own.
package prefilter
