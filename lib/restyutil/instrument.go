package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient writes every completed http exchange made by the client to
// `output`, named by a sequence number and method. Values of the form fields
// named in `redactFields` are replaced before writing. A nil output is a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput, redactFields ...string) {
	if output == nil {
		return
	}
	redact := make(map[string]bool, len(redactFields))
	for _, field := range redactFields {
		redact[field] = true
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(
			fmt.Sprintf("%03d-%s.txt", id, res.Request.Method),
			formatHttpMessage(res, redact),
		)
		return nil
	})
}
