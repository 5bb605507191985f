package analyze

import (
	"fmt"
	"go/ast"
	"strings"
)

// DirectiveFrom marks a target type with the source type it maps from:
//
//	//mapper:from example.com/app/entity.User name=UserReadMapper
const DirectiveFrom = "//mapper:from"

const nameOption = "name="

// parseClassDirective parses one comment line. The boolean result is false
// when the line is not a mapper directive.
func parseClassDirective(line string) (*ClassAnnotation, bool, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), DirectiveFrom)
	if !ok {
		return nil, false, nil
	}

	// "//mapper:fromage" is not the directive.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false, nil
	}

	args := strings.Fields(rest)
	if len(args) == 0 {
		return nil, true, fmt.Errorf("%s requires a source type", DirectiveFrom)
	}

	ann := &ClassAnnotation{PairedSource: args[0]}

	for _, arg := range args[1:] {
		name, ok := strings.CutPrefix(arg, nameOption)
		if !ok || name == "" {
			return nil, true, fmt.Errorf("unknown %s argument %q", DirectiveFrom, arg)
		}

		ann.MapperName = name
	}

	return ann, true, nil
}

// classAnnotationFromDoc scans the doc comments of a type declaration.
func classAnnotationFromDoc(groups ...*ast.CommentGroup) (*ClassAnnotation, error) {
	for _, group := range groups {
		if group == nil {
			continue
		}

		for _, c := range group.List {
			ann, ok, err := parseClassDirective(c.Text)
			if err != nil {
				return nil, err
			}

			if ok {
				return ann, nil
			}
		}
	}

	return nil, nil
}
