package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// Permitter is what RulePolicy falls back to for intents without a rule.
type Permitter interface {
	IsPermitted(role order.Role, status order.Status, intent order.Intent) bool
}

// RuleFile is the YAML layout of a policy file:
//
//	rules:
//	  cancel: 'role in ["buyer", "admin"] && status != "Confirmed"'
//	  ship: 'role == "seller"'
//
// Each expression sees the string variables role, status and intent and
// must evaluate to a bool.
type RuleFile struct {
	Rules map[string]string `yaml:"rules"`
}

// RulePolicy evaluates compiled CEL programs per intent. Intents without a
// rule are delegated to the fallback. Any evaluation error denies.
type RulePolicy struct {
	programs map[order.Intent]cel.Program
	fallback Permitter
}

// LoadRulePolicy reads and compiles the rule file at path.
func LoadRulePolicy(path string, fallback Permitter) (*RulePolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var file RuleFile
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return NewRulePolicy(file, fallback)
}

// NewRulePolicy compiles every rule once. Unknown intents and expressions
// that do not type-check as bool fail the whole policy.
func NewRulePolicy(file RuleFile, fallback Permitter) (*RulePolicy, error) {
	if fallback == nil {
		return nil, errors.New("fallback policy is required")
	}

	env, err := cel.NewEnv(
		cel.Variable("role", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("intent", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	programs := make(map[order.Intent]cel.Program, len(file.Rules))
	for name, expr := range file.Rules {
		intent := order.Intent(name)
		if err = intent.Validate(); err != nil {
			return nil, err
		}

		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("compile rule for %s: %w", name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule for %s must return bool, got %s", name, ast.OutputType())
		}

		prg, prgErr := env.Program(ast)
		if prgErr != nil {
			return nil, fmt.Errorf("build program for %s: %w", name, prgErr)
		}
		programs[intent] = prg
	}

	return &RulePolicy{programs: programs, fallback: fallback}, nil
}

// IsPermitted evaluates the rule for intent, or asks the fallback.
func (p *RulePolicy) IsPermitted(role order.Role, status order.Status, intent order.Intent) bool {
	prg, ok := p.programs[intent]
	if !ok {
		return p.fallback.IsPermitted(role, status, intent)
	}

	out, _, err := prg.Eval(map[string]any{
		"role":   role.String(),
		"status": status.String(),
		"intent": intent.String(),
	})
	if err != nil {
		return false
	}
	allowed, ok := out.Value().(bool)
	return ok && allowed
}
