// Package txtt parses and fills out txtt text templates.
//
// A template is plain text with three kinds of variable elements:
//
//	{name}          key: supplied per compilation (volatile content)
//	${greeting}     option: a named choice from a set declared in the content state
//	$signature      constant: a fixed literal from the content state
//
// Keys and options may carry a default after a colon. A default is itself an
// element, so defaults nest:
//
//	Dear {name:{nickname:friend}}, ${closing:$defaultClosing}
//
// A template may start with a locale header. Without one the locale is en-US:
//
//	locale: de-DE
//	Hallo {name}!
//
// # Basic Usage
//
//	engine := txtt.MustNew()
//	tmpl, err := engine.Parse("Hello {name:stranger}, ${greeting}")
//
//	state := txtt.NewContentState().
//	    MapOption("greeting", "formal", "how do you do?").
//	    MapOption("greeting", "casual", "what's up?")
//	content := txtt.NewVolatileContent().
//	    MapKey("name", "Paul").
//	    MapChoice("greeting", "casual")
//
//	out, err := tmpl.Resolve(state, content)
//	// out: "Hello Paul, what's up?"
//
// # Meta-Constants
//
// Some constant identifiers are reserved and computed at resolution time in
// UTC, for example $Year, $MonthName, $DayNum, $Week, $Date and $Now. Month and
// day names follow the template locale. WithIgnoreDynamic turns them into
// ordinary constants that need a content state entry.
//
// # Drafts
//
// Template.Draft lists every key and option the template needs, with default
// hints and the available choices. Draft.YAML renders it as a volatile
// content document to be edited and read back with ParseVolatileContent.
//
// # Errors
//
// Errors are *cuserr.CustomError values wrapping one of the sentinel errors
// (ErrMissingKey, ErrUnknownChoice, ...). Use errors.Is to branch and
// GetMetadata to read the identifier and source position. Resolution errors
// for misspelled identifiers also name close matches under "suggestions".
package txtt
