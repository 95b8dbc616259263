/*
Package pattern compiles find specifications and extracts match spans.

	  find string ──► Compile ──► *Pattern
	                                 │
	           ┌─────────────────────┼──────────────────┐
	           │                     │                  │
	     Match(text)           Submatches(runes)    Searcher
	    []MatchSpan             []Submatch        (simple/ext/regex)
	           │
	      Highlight ──► []Range (non-overlapping, innermost group wins)

🎯 Purpose:
- Turn literal or regular-expression find text into a reusable compiled value
- Report every non-overlapping match with its capture groups
- Flatten nested groups into display ranges

⚡ Invariants:
- Offsets are rune offsets into the input
- After an empty match the scan cursor moves one rune, so patterns such as
  `.*`, `^`, `$` and `a*` always terminate
- Case folding is a property of the compiled pattern; input text is never
  rewritten
- Groups that did not take part in a match produce no span

🔍 Example:

	p, err := pattern.Compile(`(\d+)`, pattern.Options{Regex: true})
	if err != nil {
		var perr *pattern.PatternError
		if errors.As(err, &perr) {
			fmt.Println(perr.Diagnostic())
		}
		return err
	}
	spans, _ := p.Match("track 12")
*/
package pattern
