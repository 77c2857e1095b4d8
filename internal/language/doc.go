// Package language maps user-supplied language names onto Inform 6 library
// translations.
//
// Sources and flags name their language loosely ("Danish", "dansk", "da",
// "da-DK"). Resolve folds all of these onto the language_name the compiler
// expects, so the invocation builder only has to decide whether a directive is
// needed at all.
package language
