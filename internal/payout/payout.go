// Package payout enumerates the ways an ATM can pay out an amount using
// 100, 50 and 10 notes.
package payout

import (
	"encoding/json"
	"fmt"
	"io"
)

// Separator follows each amount in the text rendering.
const Separator = "***********************"

// DemoAmounts are the amounts rendered when none are requested.
var DemoAmounts = []int{30, 50, 60, 80, 140, 230, 370, 610, 980}

// Combination is a count of notes per denomination.
type Combination struct {
	Hundreds int `json:"hundreds"`
	Fifties  int `json:"fifties"`
	Tens     int `json:"tens"`
}

// Total is the amount the combination pays out.
func (c Combination) Total() int {
	return 100*c.Hundreds + 50*c.Fifties + 10*c.Tens
}

func (c Combination) String() string {
	return fmt.Sprintf("%dx100 + %dx50 + %dx10", c.Hundreds, c.Fifties, c.Tens)
}

// Combinations lists every combination summing to amount, ordered by
// hundreds then fifties ascending. A zero amount has the single empty
// combination; negative amounts and amounts not divisible by 10 have none.
func Combinations(amount int) []Combination {
	out := []Combination{}
	if amount < 0 || amount%10 != 0 {
		return out
	}
	for h := 0; h <= amount/100; h++ {
		afterHundreds := amount - 100*h
		for f := 0; f <= afterHundreds/50; f++ {
			rest := afterHundreds - 50*f
			out = append(out, Combination{Hundreds: h, Fifties: f, Tens: rest / 10})
		}
	}
	return out
}

// Breakdown is one amount with its combinations.
type Breakdown struct {
	Amount       int           `json:"amount"`
	Combinations []Combination `json:"combinations"`
}

// Breakdowns computes the combinations of each amount in order.
func Breakdowns(amounts []int) []Breakdown {
	out := make([]Breakdown, 0, len(amounts))
	for _, amount := range amounts {
		out = append(out, Breakdown{Amount: amount, Combinations: Combinations(amount)})
	}
	return out
}

// Render writes "For <amount>:", one line per combination and a separator
// line for every amount.
func Render(w io.Writer, amounts []int) error {
	for _, b := range Breakdowns(amounts) {
		if _, err := fmt.Fprintf(w, "For %d:\n", b.Amount); err != nil {
			return err
		}
		for _, c := range b.Combinations {
			if _, err := fmt.Fprintln(w, c); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, Separator); err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes the breakdowns as an indented JSON array.
func RenderJSON(w io.Writer, amounts []int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Breakdowns(amounts))
}
