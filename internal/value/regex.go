package value

import "regexp"

// CompileRegex compiles source into a Regex Value, caching compiled
// patterns by source string — mirrors ardnew-aenv/lang/eval.go's
// compileExpr program cache (compile once, memoize by source), adapted
// here for regexp.Regexp instead of an expr-lang vm.Program.
var regexCache = map[string]*regexp.Regexp{}

func CompileRegex(source string) (Regex, error) {
	if re, ok := regexCache[source]; ok {
		return Regex{Source: source, Pattern: re}, nil
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return Regex{}, err
	}
	regexCache[source] = re
	return Regex{Source: source, Pattern: re}, nil
}
