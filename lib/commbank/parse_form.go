package commbank

import (
	"bytes"
	"netbank/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Form is the state of a login form between requests.
type Form struct {
	// Action is the raw action attribute, it may be relative or invalid.
	Action string
	Data   map[string]string
}

// ParseForm reads the first <form> on the page along with all of its hidden
// inputs that have both a name and a value.
func ParseForm(page []byte) (Form, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Form{}, badResponse("parse html: %w", err)
	}

	formEl := doc.Find("form").First()
	if formEl.Length() == 0 {
		return Form{}, badResponse("could not find form")
	}
	action, exists := formEl.Attr("action")
	if !exists {
		return Form{}, badResponse("form has no action")
	}

	form := Form{
		Action: action,
		Data:   map[string]string{},
	}
	formEl.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		if !htmlutil.HasAttrs(input.Nodes[0], "name", "value") {
			return
		}
		form.Data[input.AttrOr("name", "")] = input.AttrOr("value", "")
	})

	return form, nil
}
