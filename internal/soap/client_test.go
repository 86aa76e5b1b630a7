package soap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const respEnvelope = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body><Echo_Response><Value>hello</Value></Echo_Response></soap:Body>
</soap:Envelope>`

const faultEnvelope = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Client</faultcode>
      <faultstring>session expired</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

const validationEnvelope = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Client</faultcode>
      <faultstring>validation</faultstring>
      <detail>
        <ValidationFaultMessage>
          <Summary>the record could not be saved</Summary>
          <Messages>
            <ValidationFaultMessageItem>
              <FieldName>Name</FieldName>
              <Message>a name is required</Message>
            </ValidationFaultMessageItem>
            <ValidationFaultMessageItem>
              <FieldName>OwnerId</FieldName>
              <Message>no such user</Message>
            </ValidationFaultMessageItem>
          </Messages>
        </ValidationFaultMessage>
      </detail>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

type echoRequest struct {
	XMLName xml.Name `xml:"Echo"`
	Value   string   `xml:"Value"`
}

type echoResponse struct {
	Value string `xml:"Value"`
}

func TestCallSuccess(t *testing.T) {
	var gotAction string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		w.Write([]byte(respEnvelope))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var resp echoResponse
	err := c.Call(context.Background(), "ns/Echo", echoRequest{Value: "hi"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Value)
	assert.Equal(t, "ns/Echo", gotAction)
}

func TestCallFaultIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(faultEnvelope))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Call(context.Background(), "ns/Echo", echoRequest{}, nil)
	require.Error(t, err)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "session expired", fault.Message)
	// A decodable fault is an answer, not a transport failure: one call.
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallValidationFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(validationEnvelope))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Call(context.Background(), "ns/Echo", echoRequest{}, nil)
	require.Error(t, err)

	var validation *ValidationFault
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "the record could not be saved", validation.Summary)
	require.Len(t, validation.Messages, 2)
	assert.Contains(t, validation.Error(), "Name: a name is required")
	assert.Contains(t, validation.Error(), "OwnerId: no such user")
}

func TestCallRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(respEnvelope))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.maxElapsed = 5 * time.Second

	var resp echoResponse
	err := c.Call(context.Background(), "ns/Echo", echoRequest{}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Value)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestCallClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Call(context.Background(), "ns/Echo", echoRequest{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}
