package quiz

// Score grades answers against q. answers[i] is the chosen option index for
// question i. Missing answers and out-of-range indices count as incorrect.
//
// The pass check compares correct*100 against PassThreshold*total in
// integers, so a score is never rounded before it is compared. Percent is
// computed as correct*100/total so an exact 70 stays exactly 70.
func Score(answers []int, q Quiz) Result {
	total := len(q.Questions)
	res := Result{Total: total, PerIndex: make([]bool, total)}
	if total == 0 {
		return res
	}

	for i, question := range q.Questions {
		if i >= len(answers) {
			continue
		}
		a := answers[i]
		if a < 0 || a >= len(question.Options) {
			continue
		}
		if a == question.CorrectIndex {
			res.Correct++
			res.PerIndex[i] = true
		}
	}

	res.Percent = float64(res.Correct*100) / float64(total)
	res.Passed = res.Correct*100 >= PassThreshold*total
	return res
}
