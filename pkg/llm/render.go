package llm

import (
	"fmt"
	"regexp"
	"strings"
)

var templateVarPattern = regexp.MustCompile(`\{\{([a-zA-Z][a-zA-Z0-9_]*)\}\}`)

// RenderTemplate substitutes {{name}} placeholders from vars. Unknown
// placeholders are a validation error: the template-variable set is a
// stable contract with the flow engine, and a template referencing a
// variable the engine never supplies is a configuration bug.
func RenderTemplate(scene, template string, vars map[string]string) (string, error) {
	var missing []string
	rendered := templateVarPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := templateVarPattern.FindStringSubmatch(m)[1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return value
	})
	if len(missing) > 0 {
		return "", NewError(KindValidation, scene,
			fmt.Errorf("template references undefined variables: %s", strings.Join(missing, ", ")))
	}
	return rendered, nil
}
