package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks a descriptor tree against the contexts its environment
// declares. Every Expression must have data and a query, commands must not be
// blank, and a ContextualQuery may only name declared contexts.
func Validate(v Value, declared []ConnectionContext) error {
	switch d := v.(type) {
	case nil:
		return errors.New("missing descriptor")
	case Literal:
		return nil
	case Command:
		if strings.TrimSpace(d.Command) == "" {
			return errors.New("empty command")
		}
		return nil
	case Expression:
		if d.Data == nil {
			return errors.New("expression has no data")
		}
		if err := Validate(d.Data, declared); err != nil {
			return fmt.Errorf("expression data: %w", err)
		}
		return validateQuery(d.Query, declared)
	default:
		return fmt.Errorf("unknown descriptor %T", v)
	}
}

func validateQuery(q Query, declared []ConnectionContext) error {
	switch qq := q.(type) {
	case nil:
		return errors.New("expression has no query")
	case FixedQuery:
		_, err := Fixed(qq.Expr)
		return err
	case ContextualQuery:
		contexts := qq.Contexts()
		if len(contexts) == 0 {
			return ErrNoContexts
		}
		for _, cc := range contexts {
			if _, err := SelectContext(cc, declared); err != nil {
				return fmt.Errorf("query branch for undeclared context: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown query %T", q)
	}
}
