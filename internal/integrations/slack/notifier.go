// Package slackbot posts evaluation summaries to a Slack channel.
package slackbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"refeval/internal/assemble"
	"refeval/internal/domain"
	"refeval/internal/httpx"
	"refeval/internal/logging"
	"refeval/internal/metric"
)

type Notifier struct {
	api       *slack.Client
	channelID string
}

func NewNotifier(token, channelID string, opts ...slack.Option) *Notifier {
	opts = append([]slack.Option{slack.OptionHTTPClient(httpx.ExternalHTTPClient())}, opts...)
	return &Notifier{api: slack.New(token, opts...), channelID: channelID}
}

// PostMetricSummary sends one message with a line per refactoring type.
func (n *Notifier) PostMetricSummary(ctx context.Context, strategy domain.Strategy, lang string, reports []metric.Report) error {
	if len(reports) == 0 {
		return nil
	}
	title := fmt.Sprintf("Refactoring classification: %s / %s", strategy, assemble.DisplayName(lang))
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
	}
	for _, r := range reports {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, reportLine(r), false, false),
			nil,
			nil,
		))
	}

	_, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(summaryText(title, reports), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("posting metric summary: %w", err)
	}
	logging.L.Infof("slack summary posted channel=%s ts=%s types=%d", n.channelID, ts, len(reports))
	return nil
}

func reportLine(r metric.Report) string {
	line := fmt.Sprintf("*%s*  P=%.4f  R=%.4f  F1=%.4f  (n=%d, tp=%d fp=%d fn=%d tn=%d)",
		r.RefactoringType, r.Precision, r.Recall, r.F1, r.Total,
		r.TruePositives, r.FalsePositives, r.FalseNegatives, r.TrueNegatives)
	if len(r.Confused) > 0 {
		var parts []string
		for _, c := range r.Confused {
			parts = append(parts, fmt.Sprintf("%s: %d", c.Label, c.Count))
		}
		line += "\n_confused with_ " + strings.Join(parts, ", ")
	}
	return line
}

// summaryText is the plain-text fallback shown in notifications.
func summaryText(title string, reports []metric.Report) string {
	var b strings.Builder
	b.WriteString(title)
	for _, r := range reports {
		fmt.Fprintf(&b, "\n%s: F1=%.4f", r.RefactoringType, r.F1)
	}
	return b.String()
}
