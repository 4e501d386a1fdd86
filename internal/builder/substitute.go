// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package builder

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"parun/internal/ctxlog"
	"parun/internal/model"
)

// placeholderToken matches `{name}` or `{n}` tokens for the "referenced but
// absent" warning (E.4(b)); it never drives substitution itself.
var placeholderToken = regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

// buildRegexSubstitutions runs template.Regex against input and returns the
// {key}->value map to substitute, grounded on original_source's
// RegexProcessor.build_match_and_values: {0} is always the whole input,
// then every numbered group that actually participated in the match, then
// every named group that participated. ok is false when the regex did not
// match at all (§4.2 "the record is dropped with a warning; this is not a
// fatal error").
func buildRegexSubstitutions(re *regexp.Regexp, input string) (map[string]string, bool) {
	idx := re.FindStringSubmatchIndex(input)
	if idx == nil {
		return nil, false
	}

	subs := map[string]string{"{0}": input}

	names := re.SubexpNames()
	for i := 1; i < len(idx)/2; i++ {
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 || end < 0 {
			continue // group did not participate in the match
		}

		value := input[start:end]
		subs["{"+strconv.Itoa(i)+"}"] = value

		if i < len(names) && names[i] != "" {
			subs["{"+names[i]+"}"] = value
		}
	}

	return subs, true
}

// buildAutoNumberedSubstitutions binds {1},{2},... to the Cartesian-product
// tuple's fields in order and {0}/{} to the whole joined tuple (§4.2
// "auto-regex ... binds {1},{2}... to the Cartesian-product groups and
// {0}/{} to the whole tuple"). Always succeeds: there is no "no match" case
// when the source is the tuple itself.
func buildAutoNumberedSubstitutions(rec model.InvocationRecord) map[string]string {
	joined := rec.Joined()

	subs := make(map[string]string, len(rec.RawFields)+2)
	subs["{0}"] = joined
	subs["{}"] = joined

	for i, f := range rec.RawFields {
		subs["{"+strconv.Itoa(i+1)+"}"] = f
	}

	return subs
}

// applySubstitutions performs exact string replacement on each argv entry
// independently (§3 CommandTemplate: "Substitution is performed as exact
// string replacement on each argument; surrounding characters ... are
// untouched"). A placeholder token present in an argument but absent from
// subs is left in place with a warning (E.4(b)).
func applySubstitutions(ctx context.Context, argvPrefix []string, subs map[string]string, origin model.Origin) []string {
	out := make([]string, len(argvPrefix))

	for i, arg := range argvPrefix {
		replaced := arg

		for key, value := range subs {
			if strings.Contains(replaced, key) {
				replaced = strings.ReplaceAll(replaced, key, value)
			}
		}

		for _, tok := range placeholderToken.FindAllString(replaced, -1) {
			if _, known := subs[tok]; known {
				continue
			}

			ctxlog.Logger(ctx).Warn("capture group referenced but not present in match, leaving token in place",
				"token", tok, "origin", origin.String())
		}

		out[i] = replaced
	}

	return out
}
