// Package specparse reads the sectioned specification-file text format
// ([GENERAL]/[INPUT_VARIABLES]/[OUTPUT_VARIABLES]/[ASSUMPTIONS]/
// [GUARANTEES]) into a *specification.Specification. LTL parsing of the
// input file is an external, out-of-scope collaborator for the core
// reduction pipeline the same way the SMT solver and LTL-to-automaton
// translator are; this package is the concrete, in-process implementation
// the `synth` CLI needs to actually read a file from disk.
package specparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

const (
	sectionGeneral         = "GENERAL"
	sectionInputVariables  = "INPUT_VARIABLES"
	sectionOutputVariables = "OUTPUT_VARIABLES"
	sectionAssumptions     = "ASSUMPTIONS"
	sectionGuarantees      = "GUARANTEES"
)

// ParseFile opens path and parses it as a specification file.
func ParseFile(path string) (*specification.Specification, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("ParseFile", err)
	}
	defer f.Close()

	spec, err := Parse(f)
	if err != nil {
		return nil, wrap(fmt.Sprintf("ParseFile(%s)", path), err)
	}
	return spec, nil
}

// Parse reads a full specification file from r and builds the
// Specification it describes: template count and inputs/outputs from
// [GENERAL]/[INPUT_VARIABLES]/[OUTPUT_VARIABLES], and assumption/guarantee
// formulas from [ASSUMPTIONS]/[GUARANTEES]. Sections may appear in any
// order; [GENERAL] must be parsed first since every other section needs
// the template count.
func Parse(r io.Reader) (*specification.Specification, error) {
	sections, err := splitSections(r)
	if err != nil {
		return nil, wrap("Parse", err)
	}

	templateCount, err := parseTemplateCount(sections[sectionGeneral])
	if err != nil {
		return nil, wrap("Parse", err)
	}
	spec := specification.New(templateCount)

	declared := make(map[string]declaredSignal)

	if err := addVariables(spec, declared, sections[sectionInputVariables], templateCount, true); err != nil {
		return nil, wrap("Parse", err)
	}
	if err := addVariables(spec, declared, sections[sectionOutputVariables], templateCount, false); err != nil {
		return nil, wrap("Parse", err)
	}

	addAssumption := func(f specification.Formula) error {
		spec.AddAssumption(f)
		return nil
	}
	if err := addFormulas(spec, declared, sections[sectionAssumptions], addAssumption); err != nil {
		return nil, wrap("Parse", err)
	}
	if err := addFormulas(spec, declared, sections[sectionGuarantees], spec.AddGuarantee); err != nil {
		return nil, wrap("Parse", err)
	}

	return spec, nil
}

// splitSections groups the input's non-comment, non-blank lines under
// their enclosing "[NAME]" header, concatenating continuation lines with
// a single space so a statement may wrap across lines.
func splitSections(r io.Reader) (map[string]string, error) {
	sections := make(map[string]string)
	current := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, wrap("splitSections", ErrMalformedVariable)
			}
			current = line[1:end]
			continue
		}
		if current == "" {
			return nil, wrap("splitSections", ErrMissingSection)
		}
		if sections[current] != "" {
			sections[current] += " "
		}
		sections[current] += line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

func parseTemplateCount(generalSection string) (int, error) {
	idx := strings.Index(generalSection, "templates:")
	if idx < 0 {
		return 0, wrap("parseTemplateCount", ErrMissingSection)
	}
	rest := strings.TrimSpace(generalSection[idx+len("templates:"):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, wrap("parseTemplateCount", ErrInvalidTemplateCount)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, wrap("parseTemplateCount", ErrInvalidTemplateCount)
	}
	return n, nil
}

// addVariables splits section on ';', and for every non-empty token
// ("name_k") resolves the base name and template index, registers it in
// declared, and adds it to that template's input or output list.
func addVariables(spec *specification.Specification, declared map[string]declaredSignal, section string, templateCount int, isInput bool) error {
	for _, tok := range strings.Split(section, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, k, err := splitTemplateSuffix(tok)
		if err != nil {
			return wrap(fmt.Sprintf("addVariables(%q)", tok), err)
		}
		if k < 0 || k >= templateCount {
			return wrap(fmt.Sprintf("addVariables(%q)", tok), ErrMalformedVariable)
		}
		declared[tok] = declaredSignal{name: name, template: k}

		sig := signal.NewTemplate(name, k)
		if isInput {
			spec.Template(k).AddInput(sig)
		} else {
			spec.Template(k).AddOutput(sig)
		}
	}
	return nil
}

// splitTemplateSuffix splits "name_k" into ("name", k) at the last
// underscore, requiring the suffix to be a valid non-negative integer.
func splitTemplateSuffix(tok string) (string, int, error) {
	idx := strings.LastIndexByte(tok, '_')
	if idx < 0 || idx == len(tok)-1 {
		return "", 0, ErrMalformedVariable
	}
	name := tok[:idx]
	k, err := strconv.Atoi(tok[idx+1:])
	if err != nil || k < 0 {
		return "", 0, ErrMalformedVariable
	}
	return name, k, nil
}

// addFormulas splits section on ';' into individual "Forall (...) expr"
// statements, parses and wraps each as a specification.Formula, and
// hands it to add (Specification.AddGuarantee or the assumption
// equivalent).
func addFormulas(spec *specification.Specification, declared map[string]declaredSignal, section string, add func(specification.Formula) error) error {
	for _, stmt := range strings.Split(section, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		forall, err := parseFormula(stmt, declared)
		if err != nil {
			return wrap(fmt.Sprintf("addFormulas(%q)", stmt), err)
		}
		f, err := specification.NewFormula(forall)
		if err != nil {
			return wrap(fmt.Sprintf("addFormulas(%q)", stmt), err)
		}
		if err := add(f); err != nil {
			return wrap(fmt.Sprintf("addFormulas(%q)", stmt), err)
		}
	}
	return nil
}
