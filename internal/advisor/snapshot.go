// Package advisor - snapshot.go
// Read-only economy view handed to the advisor.
package advisor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
)

// Snapshot is everything the advisor may see about a mine.
type Snapshot struct {
	Cash                    float64 `json:"cash"`
	SiteLevels              []int   `json:"siteLevels"`
	ElevatorLevel           int     `json:"elevatorLevel"`
	ElevatorStorageFullness int     `json:"elevatorStorageFullness"` // percent
	CartLevel               int     `json:"cartLevel"`
	MarketLevel             int     `json:"marketLevel"`
	IdleIncome              float64 `json:"idleIncome"`
}

// FromState copies the advisor's view out of st.
func FromState(b rules.Balance, st *mine.State, idleIncome float64) Snapshot {
	levels := make([]int, len(st.Sites))
	for i, s := range st.Sites {
		levels[i] = s.Level
	}

	fullness := 0
	if capacity := b.ElevatorStorageCapacity(&st.Elevator); capacity > 0 {
		fullness = int(math.Round(st.Elevator.Storage.Total() / capacity * 100))
	}

	return Snapshot{
		Cash:                    st.Cash,
		SiteLevels:              levels,
		ElevatorLevel:           st.Elevator.Level,
		ElevatorStorageFullness: fullness,
		CartLevel:               st.Cart.Level,
		MarketLevel:             st.Market.Level,
		IdleIncome:              idleIncome,
	}
}

// Summary renders the snapshot as the bullet list sent to the model.
func (s Snapshot) Summary() string {
	levels := make([]string, len(s.SiteLevels))
	for i, l := range s.SiteLevels {
		levels[i] = strconv.Itoa(l)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "- Cash: $%s\n", FormatNumber(s.Cash))
	fmt.Fprintf(&sb, "- Mine sites: %d sites. Levels: %s.\n", len(s.SiteLevels), strings.Join(levels, ", "))
	fmt.Fprintf(&sb, "- Elevator: Level %d. Storage is %d%% full.\n", s.ElevatorLevel, s.ElevatorStorageFullness)
	fmt.Fprintf(&sb, "- Pipeline: Level %d.\n", s.CartLevel)
	fmt.Fprintf(&sb, "- Market: Level %d.\n", s.MarketLevel)
	fmt.Fprintf(&sb, "- Idle Income: $%s/s", FormatNumber(s.IdleIncome))
	return sb.String()
}
