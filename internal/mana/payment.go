package mana

import "fmt"

// PaymentPlan records how a Cost was (or would be) paid out of a Pool.
type PaymentPlan struct {
	Colors  map[Color]int
	Generic int // satisfied by any color, tracked here for display only
	X       int
}

// PaymentResult is the outcome of attempting to pay a Cost from a Pool.
type PaymentResult struct {
	Success bool
	Plan    PaymentPlan
	Reason  string
}

// Pay attempts to pay cost (with the given X value for X costs) out of
// pool, spending on success and leaving pool untouched on failure — this
// engine never partially spends a pool on a failed payment, matching spec
// §8.3 "Cast of a spell whose mana cost cannot be fully paid: unwind
// leaves ... counters unchanged."
//
// Colored pips are paid first (exact match required, as the teacher's
// CalculatePayment does), then hybrid pips try their first still-available
// option, then generic (including X) drains whatever color is left over.
// The player does not choose which color pays generic.
func Pay(cost *Cost, pool *Pool, xValue int) PaymentResult {
	trial := pool.Clone()
	plan := PaymentPlan{Colors: make(map[Color]int), X: xValue}

	for _, col := range []Color{White, Blue, Black, Red, Green, Colorless} {
		need := cost.Colors[col]
		if need == 0 {
			continue
		}
		if !trial.Spend(col, need) {
			return PaymentResult{Reason: fmt.Sprintf("insufficient %s mana (need %d)", col, need)}
		}
		plan.Colors[col] += need
	}

	for _, pip := range cost.Hybrid {
		paid := false
		for _, opt := range pip.Options {
			if trial.Spend(opt, 1) {
				plan.Colors[opt]++
				paid = true
				break
			}
		}
		if !paid && pip.Generic {
			paid = spendAnyColor(trial, plan.Colors, 1)
		}
		if !paid {
			return PaymentResult{Reason: "insufficient mana for hybrid pip"}
		}
	}

	genericNeeded := cost.Generic
	if cost.X {
		if xValue < 0 {
			return PaymentResult{Reason: "X may not be negative"}
		}
		genericNeeded += xValue
		plan.Generic += xValue
	}
	if genericNeeded > 0 {
		if !spendAnyColor(trial, plan.Colors, genericNeeded) {
			return PaymentResult{Reason: fmt.Sprintf("insufficient generic mana (need %d)", genericNeeded)}
		}
		plan.Generic += cost.Generic
	}

	*pool = *trial
	return PaymentResult{Success: true, Plan: plan}
}

// spendAnyColor drains amount mana from trial, any color, recording what was
// spent into colorsUsed. Order is deterministic (W,U,B,R,G,C) so replay is
// reproducible when the caller hasn't specified a ManaPipPayment choice.
func spendAnyColor(trial *Pool, colorsUsed map[Color]int, amount int) bool {
	for _, col := range []Color{White, Blue, Black, Red, Green, Colorless} {
		for amount > 0 && trial.Spend(col, 1) {
			colorsUsed[col]++
			amount--
		}
	}
	return amount == 0
}

// CanPay reports whether cost could be paid from pool without mutating
// pool, used by the casting pipeline to bound the legal X range (spec §4.7
// phase 4: "usually bounded by affordable mana").
func CanPay(cost *Cost, pool *Pool, xValue int) bool {
	trial := pool.Clone()
	result := Pay(cost, trial, xValue)
	return result.Success
}

// MaxAffordableX returns the largest X such that cost (with that X) is
// still payable from pool, by construction bounded by pool.Total().
func MaxAffordableX(cost *Cost, pool *Pool) int {
	for x := pool.Total(); x >= 0; x-- {
		if CanPay(cost, pool, x) {
			return x
		}
	}
	return 0
}
