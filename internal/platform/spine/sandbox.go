package spine

import "context"

// sandboxAcknowledgement is the canned application acknowledgement returned
// for every sandbox submission.
const sandboxAcknowledgement = `<hl7:MCCI_IN010000UK13 xmlns:hl7="urn:hl7-org:v3">
  <hl7:acknowledgement typeCode="AA"/>
</hl7:MCCI_IN010000UK13>`

// SandboxClient accepts every submission and immediately reports success.
// It lets integrators exercise the full request path without a backbone
// connection.
type SandboxClient struct{}

func NewSandboxClient() *SandboxClient {
	return &SandboxClient{}
}

func (s *SandboxClient) Submit(_ context.Context, _ string, _ []byte) (Response, error) {
	return Response{StatusCode: 200, Body: sandboxAcknowledgement}, nil
}

func (s *SandboxClient) Poll(_ context.Context, _ string) (Response, error) {
	return Response{StatusCode: 200, Body: sandboxAcknowledgement}, nil
}
