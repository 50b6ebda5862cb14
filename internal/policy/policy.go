// Package policy решает, что происходит со строкой инвентаря при списании.
// Функции чистые: без хранилища и без ввода-вывода.
package policy

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity возвращается, если списание невозможно
// (количество < 1 или больше остатка)
var ErrInvalidQuantity = errors.New("invalid quantity")

// Kind тип решения
type Kind int

const (
	// KindRetire строку нужно удалить
	KindRetire Kind = iota + 1
	// KindSetQuantity строке нужно выставить новое количество
	KindSetQuantity
)

func (k Kind) String() string {
	switch k {
	case KindRetire:
		return "retire"
	case KindSetQuantity:
		return "set_quantity"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decision результат политики.
// Quantity имеет смысл только для KindSetQuantity и всегда > 0.
type Decision struct {
	Kind     Kind
	Quantity int
}

// Retire решение удалить строку
func Retire() Decision {
	return Decision{Kind: KindRetire}
}

// SetQuantity решение выставить количество n
func SetQuantity(n int) Decision {
	return Decision{Kind: KindSetQuantity, Quantity: n}
}

func (d Decision) String() string {
	if d.Kind == KindSetQuantity {
		return fmt.Sprintf("%s(%d)", d.Kind, d.Quantity)
	}
	return d.Kind.String()
}

// ComputeQuantityUpdate вычисляет решение для списания amountToRemove единиц
// из строки с остатком currentQuantity.
func ComputeQuantityUpdate(currentQuantity, amountToRemove int) (Decision, error) {
	if currentQuantity < 1 {
		return Decision{}, fmt.Errorf("%w: current quantity %d must be positive", ErrInvalidQuantity, currentQuantity)
	}
	if amountToRemove < 1 || amountToRemove > currentQuantity {
		return Decision{}, fmt.Errorf("%w: amount %d must be between 1 and %d", ErrInvalidQuantity, amountToRemove, currentQuantity)
	}

	resulting := currentQuantity - amountToRemove
	if resulting <= 0 {
		return Retire(), nil
	}
	return SetQuantity(resulting), nil
}

// ComputeFullRemoval решение для полного удаления строки
func ComputeFullRemoval() Decision {
	return Retire()
}
