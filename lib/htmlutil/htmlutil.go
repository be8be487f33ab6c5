package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// ScriptTexts returns the raw text of every <script> element in document order,
// skipping scripts that only reference an external source.
func ScriptTexts(doc *goquery.Document) []string {
	var out []string
	for _, script := range doc.Find("script").Nodes {
		text := GetText(script)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

// HasAttrs reports whether the node carries every one of the given attributes,
// regardless of their values.
func HasAttrs(node *html.Node, keys ...string) bool {
	for _, key := range keys {
		found := false
		for _, a := range node.Attr {
			if a.Key == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
