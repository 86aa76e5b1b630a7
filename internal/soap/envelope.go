// Package soap implements the minimal SOAP 1.1 transport used by the
// remote project-management service: envelope encoding, fault decoding
// (including structured validation faults), and HTTP delivery with retry.
package soap

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// requestEnvelope wraps a single request body element.
type requestEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	NS      string   `xml:"xmlns:soapenv,attr"`
	Body    requestBody
}

type requestBody struct {
	XMLName xml.Name `xml:"soapenv:Body"`
	Content any
}

// responseEnvelope captures the raw body of a response so the caller's
// response struct (or a fault) can be decoded from it in a second pass.
type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Inner []byte `xml:",innerxml"`
}

// Fault is a SOAP 1.1 fault.
type Fault struct {
	XMLName xml.Name    `xml:"Fault"`
	Code    string      `xml:"faultcode"`
	Message string      `xml:"faultstring"`
	Detail  faultDetail `xml:"detail"`
}

type faultDetail struct {
	Validation *ValidationFault `xml:"ValidationFaultMessage"`
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("SOAP fault %s: %s", f.Code, f.Message)
}

// ValidationFault is the structured server-side validation failure
// carried in a fault detail: one message per offending field.
type ValidationFault struct {
	Summary  string                `xml:"Summary"`
	Messages []ValidationFaultItem `xml:"Messages>ValidationFaultMessageItem"`
}

// ValidationFaultItem is a single (field, message) pair.
type ValidationFaultItem struct {
	FieldName string `xml:"FieldName"`
	Message   string `xml:"Message"`
}

// Error implements the error interface. The message lists every field
// failure on its own line so it can be written into a row's error cell.
func (v *ValidationFault) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if v.Summary != "" {
		b.WriteString(": ")
		b.WriteString(v.Summary)
	}
	for _, m := range v.Messages {
		b.WriteString("\n")
		if m.FieldName != "" {
			b.WriteString(m.FieldName)
			b.WriteString(": ")
		}
		b.WriteString(m.Message)
	}
	return b.String()
}

// encodeRequest builds the request envelope around body.
func encodeRequest(body any) ([]byte, error) {
	env := requestEnvelope{
		NS:   envelopeNS,
		Body: requestBody{Content: body},
	}
	data, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshalling envelope: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// decodeResponse unmarshals a response envelope into resp, or returns
// the decoded fault if the body carries one.
func decodeResponse(data []byte, resp any) error {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshalling envelope: %w", err)
	}

	if fault := decodeFault(env.Body.Inner); fault != nil {
		if fault.Detail.Validation != nil {
			return fault.Detail.Validation
		}
		return fault
	}

	if resp == nil {
		return nil
	}
	if err := xml.Unmarshal(env.Body.Inner, resp); err != nil {
		return fmt.Errorf("unmarshalling response body: %w", err)
	}
	return nil
}

// decodeFault returns the fault in body, or nil if body is not a fault.
func decodeFault(body []byte) *Fault {
	if !strings.Contains(string(body), "Fault") {
		return nil
	}
	var fault Fault
	if err := xml.Unmarshal(body, &fault); err != nil {
		return nil
	}
	if fault.Code == "" && fault.Message == "" {
		return nil
	}
	return &fault
}
