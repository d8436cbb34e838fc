// Package batch runs the Markdown filter and the section id repair over sets
// of files.
//
// A [Driver] converts each configured Markdown source into a .dox file
// ([Driver.RunLineFilterOverSet]) and repairs each Doxygen XML artifact
// ([Driver.RunRepairOverSet]). Every item yields an [ItemResult]; a failing
// item never stops the rest of the batch. Use [Errors] to collect failures.
//
// Files are replaced with [ReplaceFile], so readers never see a partially
// written artifact. Unchanged outputs are not rewritten.
//
// Both runs can preview instead of write: with [WithList] the paths that would
// change are printed, and with [WithDiff] a unified diff is printed.
package batch
