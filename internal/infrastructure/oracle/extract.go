package oracle

import (
	"strings"

	"github.com/go-rod/rod"

	"TweetSentry/internal/domain"
	"TweetSentry/internal/infrastructure/telegram"
)

// replyNode is one child element of a reply, captured before escaping so
// document assembly stays a pure, testable step.
type replyNode struct {
	verbatim bool
	content  string
}

// ExtractLatest selects the most recent reply element and reconstructs it
// as an ExtractedDocument, preserving the split between narrative text and
// verbatim blocks. Returns domain.ErrDisconnected when the reply container
// cannot be queried, which is how the pipeline learns the session dropped
// mid-reply.
func (s *Session) ExtractLatest() (domain.ExtractedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replies, err := s.page.Elements(replySelector)
	if err != nil || len(replies) == 0 {
		s.state = domain.StateDisconnected
		return domain.ExtractedDocument{}, domain.ErrDisconnected
	}
	last := replies.Last()

	pres, err := last.Elements("pre")
	if err != nil {
		s.state = domain.StateDisconnected
		return domain.ExtractedDocument{}, domain.ErrDisconnected
	}

	if len(pres) == 0 {
		text, err := last.Text()
		if err != nil {
			s.state = domain.StateDisconnected
			return domain.ExtractedDocument{}, domain.ErrDisconnected
		}
		return buildDocument([]replyNode{{content: text}}), nil
	}

	nodes, err := collectReplyNodes(last)
	if err != nil {
		s.state = domain.StateDisconnected
		return domain.ExtractedDocument{}, domain.ErrDisconnected
	}

	return buildDocument(nodes), nil
}

// collectReplyNodes walks the reply's p and pre children in document
// order. A pre's inner code element carries the verbatim content; every
// other child contributes its inner HTML so inline code markers survive.
func collectReplyNodes(reply *rod.Element) ([]replyNode, error) {
	children, err := reply.Elements("p,pre")
	if err != nil {
		return nil, err
	}

	nodes := make([]replyNode, 0, len(children))
	for _, child := range children {
		tag, err := child.Eval("() => this.tagName")
		if err != nil {
			return nil, err
		}

		if tag.Value.Str() == "PRE" {
			code, err := child.Element("code")
			if err != nil {
				return nil, err
			}
			text, err := code.Text()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, replyNode{verbatim: true, content: text})
			continue
		}

		html, err := child.HTML()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, replyNode{content: innerHTML(html)})
	}

	return nodes, nil
}

// buildDocument escapes each node and tags it. Verbatim content is wrapped
// in a fenced delimiter the notifier's renderer recognizes; prose keeps
// inline code as backticks by rewriting the escaped code tags.
func buildDocument(nodes []replyNode) domain.ExtractedDocument {
	segments := make([]domain.Segment, 0, len(nodes))
	for _, node := range nodes {
		if node.verbatim {
			segments = append(segments, domain.Segment{
				Kind: domain.SegmentVerbatim,
				Text: "\n```\n" + telegram.EscapeMarkdownV2(node.content) + "\n```",
			})
			continue
		}

		text := telegram.EscapeMarkdownV2(node.content)
		text = strings.ReplaceAll(text, `<code\>`, "`")
		text = strings.ReplaceAll(text, `</code\>`, "`")
		segments = append(segments, domain.Segment{Kind: domain.SegmentProse, Text: text})
	}
	return domain.ExtractedDocument{Segments: segments}
}

// innerHTML strips the outer element tags from an outerHTML string.
func innerHTML(outer string) string {
	start := strings.IndexByte(outer, '>')
	end := strings.LastIndexByte(outer, '<')
	if start < 0 || end <= start {
		return outer
	}
	return outer[start+1 : end]
}
