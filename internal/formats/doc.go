// Package formats decides which asset encodings a target variant cooks.
//
// The catalog functions enumerate what a variant could produce. The
// Negotiator narrows that down using the user's settings: targeted shader
// formats are filtered against the possible set, and texture formats from
// a disabled family are substituted.
//
// Texture substitution differs by context. Resolving a single texture
// always yields a usable format per layer (ETC2 if enabled, else BGRA8).
// Building the flat list of every format in play drops a disabled family
// instead of falling back to BGRA8.
//
//	family  enabled  ETC2   per texture          flat list
//	DXT     yes      -      unchanged            unchanged
//	DXT     no       yes    DXT1->ETC2_RGB,      same
//	                        other->ETC2_RGBA
//	DXT     no       no     BGRA8                removed
//	BC      yes      -      unchanged            unchanged
//	BC      no       yes    ETC2_RGB             same
//	BC      no       no     BGRA8                removed
package formats
