package printing

import "github.com/tradedocs/backend/internal/domain/shared"

const maxMarginMM = 50

// Margins are page margins in millimetres.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DocumentMargins are the A4 margins of every trade document.
func DocumentMargins() Margins {
	return Margins{Top: 10, Right: 15, Bottom: 15, Left: 15}
}

func (m Margins) IsZero() bool {
	return m == Margins{}
}

// Validate accepts 0 to 50 mm on every side.
func (m Margins) Validate() error {
	for _, side := range [...]int{m.Top, m.Right, m.Bottom, m.Left} {
		if side < 0 {
			return shared.NewDomainError(shared.CodeInvalidInput, "Margins cannot be negative")
		}
		if side > maxMarginMM {
			return shared.NewDomainError(shared.CodeInvalidInput, "Margins cannot exceed 50mm")
		}
	}
	return nil
}
