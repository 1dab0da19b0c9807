// Package report renders prediction results as localized plain text.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"scorecast/ml"
)

const (
	msgBest     = "Best predicted score: %.1f"
	msgAverage  = "Average predicted score: %.1f"
	msgModel    = "Model"
	msgScore    = "Predicted score"
	msgFailed   = "Unavailable models"
	msgRanking  = "Model ranking (by R²)"
	msgRankLine = "%d. %s: R² = %.3f"
)

func init() {
	ko := language.Korean
	_ = message.SetString(ko, msgBest, "최고 예측 점수: %.1f점")
	_ = message.SetString(ko, msgAverage, "평균 예측 점수: %.1f점")
	_ = message.SetString(ko, msgModel, "모델")
	_ = message.SetString(ko, msgScore, "예측 점수")
	_ = message.SetString(ko, msgFailed, "사용할 수 없는 모델")
	_ = message.SetString(ko, msgRanking, "모델 성능 순위 (R² 기준)")
	_ = message.SetString(ko, msgRankLine, "%d. %s: R² = %.3f")
}

var supported = language.NewMatcher([]language.Tag{language.English, language.Korean})

// Printer returns a message printer for the closest supported language.
func Printer(lang string) *message.Printer {
	tag, _ := language.MatchStrings(supported, lang)
	base, _ := tag.Base()
	return message.NewPrinter(language.Make(base.String()))
}

// Render writes the summary lines, the per-model table and any failures.
func Render(w io.Writer, res *ml.Result, lang string) error {
	p := Printer(lang)
	if _, err := fmt.Fprintln(w, p.Sprintf(msgBest, res.Summary.Max)); err != nil {
		return err
	}
	fmt.Fprintln(w, p.Sprintf(msgAverage, res.Summary.Mean))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", p.Sprintf(msgModel), p.Sprintf(msgScore))
	for _, name := range res.Order {
		score, ok := res.Predictions[name]
		if !ok {
			fmt.Fprintf(tw, "%s\t-\n", name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, p.Sprintf("%.2f", score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Failures) > 0 {
		names := make([]string, 0, len(res.Failures))
		for name := range res.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "\n%s:\n", p.Sprintf(msgFailed))
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", res.Failures[name])
		}
	}
	return nil
}

// RenderRanking writes models ordered by historical R².
func RenderRanking(w io.Writer, ranks []ml.ModelRank, lang string) error {
	p := Printer(lang)
	if _, err := fmt.Fprintln(w, p.Sprintf(msgRanking)); err != nil {
		return err
	}
	for _, r := range ranks {
		if _, err := fmt.Fprintln(w, p.Sprintf(msgRankLine, r.Rank, r.Model, r.R2)); err != nil {
			return err
		}
	}
	return nil
}
