// Package sectionid repairs section identifiers in Doxygen XML output.
//
// Doxygen names every section of a compound after the compound itself, so
// a section inside the a_wild_card example is expected to have an id such as
// "a_wild_card_8ino-example_getting-started". When an example page is built
// from a generated .dox file, Doxygen sometimes keeps the id prefix of the
// .dox file instead ("a_wild_card_8dox_getting-started"), and links to the
// section no longer resolve.
//
// A [Repairer] walks every compounddef element and every sect0 through sect5
// element beneath it. Ids that do not start with the compound id are rebuilt
// from the compound id and the part of the old id after the [DefaultMarker].
//
// Repair is a pure in-memory transform over an [*etree.Document]. Writing
// the result back to disk is left to the caller.
package sectionid
