package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/funxy-types/internal/config"
)

// Kind is the "type of a type" — * for proper types, * -> * for
// single-argument constructors such as Array or Option.
type Kind interface {
	String() string
	Equal(Kind) bool
}

type KStar struct{}

func (k KStar) String() string { return "*" }
func (k KStar) Equal(other Kind) bool {
	if _, ok := other.(KWildcard); ok {
		return true
	}
	_, ok := other.(KStar)
	return ok
}

// KWildcard matches any other kind; used for builtins like classof
// that accept a Type of any arity.
type KWildcard struct{}

func (k KWildcard) String() string        { return "?" }
func (k KWildcard) Equal(other Kind) bool { return true }

type KVar struct {
	Name string
}

func (k KVar) String() string {
	if (config.IsTestMode || config.IsLSPMode) && strings.HasPrefix(k.Name, "k") {
		if _, err := strconv.Atoi(k.Name[1:]); err == nil {
			return "k?"
		}
	}
	return k.Name
}

func (k KVar) Equal(other Kind) bool {
	if ov, ok := other.(KVar); ok {
		return k.Name == ov.Name
	}
	return false
}

type KArrow struct {
	Left  Kind
	Right Kind
}

func (k KArrow) String() string {
	return fmt.Sprintf("(%s -> %s)", k.Left.String(), k.Right.String())
}

func (k KArrow) Equal(other Kind) bool {
	if _, ok := other.(KWildcard); ok {
		return true
	}
	o, ok := other.(KArrow)
	if !ok {
		return false
	}
	return k.Left.Equal(o.Left) && k.Right.Equal(o.Right)
}

var Star Kind = KStar{}
var AnyKind Kind = KWildcard{}

// MakeArrow builds the N-ary kind arrow for a constructor of len(args)-1
// type parameters, e.g. MakeArrow(Star, Star, Star) = * -> * -> *.
func MakeArrow(args ...Kind) Kind {
	if len(args) == 0 {
		return Star
	}
	if len(args) == 1 {
		return args[0]
	}
	return KArrow{Left: args[0], Right: MakeArrow(args[1:]...)}
}
