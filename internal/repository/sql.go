package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeNumericValueOutOfRange = "22003"
	codeForeignKeyViolation    = "23503"
	codeUniqueViolation        = "23505"
	codeCheckViolation         = "23514"
)

// mapError translates driver errors into the domain taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		case codeCheckViolation, codeNumericValueOutOfRange:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		}
	}

	return err
}

// filter accumulates WHERE conditions with positional arguments.
type filter struct {
	conds []string
	args  []any
}

// add appends cond, whose %d verbs are replaced by the position of arg.
func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	n := len(f.args)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "%d", fmt.Sprint(n)))
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// next is the placeholder for the next argument, used for LIMIT/OFFSET.
func (f *filter) next(arg any) string {
	f.args = append(f.args, arg)
	return fmt.Sprintf("$%d", len(f.args))
}

// orderBy renders an ORDER BY clause from whitelisted columns. The tiebreak
// column keeps paging stable.
func orderBy(fields []domain.OrderField, columns map[string]string, fallback, tiebreak string) string {
	if len(fields) == 0 {
		return " ORDER BY " + fallback + ", " + tiebreak
	}

	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	parts = append(parts, tiebreak)

	return " ORDER BY " + strings.Join(parts, ", ")
}

func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}

func parseMoney(amount decimal.Decimal, code string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}
