// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// flattenHTML renders Matrix formatted_body HTML as plain text for the
// terminal. Block elements and <br> become line breaks; links whose
// text differs from their target keep the target in angle brackets.
// Rich-reply fallbacks (<mx-reply>) are dropped since the replied-to
// event is its own row.
func flattenHTML(source string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(source))
	var builder strings.Builder
	replyDepth := 0
	var links []link

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			// io.EOF, or a reader error that a strings.Reader never
			// produces.
			return strings.TrimSpace(builder.String())
		}
		token := tokenizer.Token()

		switch tokenType {
		case html.StartTagToken, html.SelfClosingTagToken:
			if token.Data == "mx-reply" {
				if tokenType == html.StartTagToken {
					replyDepth++
				}
				continue
			}
			if replyDepth > 0 {
				continue
			}
			switch token.DataAtom {
			case atom.Br:
				builder.WriteByte('\n')
			case atom.Li:
				lineBreak(&builder)
				builder.WriteString("• ")
			case atom.A:
				links = append(links, link{href: attribute(token, "href"), start: builder.Len()})
			default:
				if isBlock(token.DataAtom) {
					lineBreak(&builder)
				}
			}

		case html.EndTagToken:
			if token.Data == "mx-reply" {
				if replyDepth > 0 {
					replyDepth--
				}
				continue
			}
			if replyDepth > 0 {
				continue
			}
			switch {
			case token.DataAtom == atom.A && len(links) > 0:
				open := links[len(links)-1]
				links = links[:len(links)-1]
				text := builder.String()[open.start:]
				if showTarget(open.href, text) {
					builder.WriteString(" <" + open.href + ">")
				}
			case isBlock(token.DataAtom) || token.DataAtom == atom.Li:
				lineBreak(&builder)
			}

		case html.TextToken:
			if replyDepth == 0 {
				builder.WriteString(token.Data)
			}
		}
	}
}

// showTarget reports whether a link's target adds anything to its
// text. Mention pills (matrix.to permalinks) never do.
func showTarget(href, text string) bool {
	switch {
	case href == "", href == text, strings.HasSuffix(href, ":"+text):
		return false
	case strings.HasPrefix(href, "https://matrix.to/"):
		return false
	}
	return true
}

type link struct {
	href  string
	start int
}

func attribute(token html.Token, name string) string {
	for _, attr := range token.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// lineBreak ends the current line unless the output is empty or
// already ends with one.
func lineBreak(builder *strings.Builder) {
	text := builder.String()
	if text != "" && !strings.HasSuffix(text, "\n") {
		builder.WriteByte('\n')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Blockquote, atom.Pre, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Hr, atom.Table, atom.Tr:
		return true
	}
	return false
}
