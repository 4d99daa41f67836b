package translation

import (
	"crypto/sha1"
	"encoding/base64"

	"github.com/eprescribe/coordinator/internal/platform/canonxml"
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const hl7v3Namespace = "urn:hl7-org:v3"

// Fixed xmldsig algorithm identifiers. The offline signing device computes
// the same digest, so these never vary.
const (
	xmldsigNamespace          = "http://www.w3.org/2000/09/xmldsig#"
	canonicalizationAlgorithm = "http://www.w3.org/2001/10/xml-exc-c14n#"
	signatureAlgorithm        = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	digestAlgorithm           = "http://www.w3.org/2000/09/xmldsig#sha1"
	signingAlgorithmName      = "RS1"
)

// SignatureFragment is one element of the ordered list the prescription
// digest is computed over. Exactly one group of fields is set per fragment.
type SignatureFragment struct {
	Time              *hl7v3.Timestamp    `xml:"time,omitempty"`
	ID                *hl7v3.Identifier   `xml:"id,omitempty"`
	AgentPerson       *hl7v3.AgentPerson  `xml:"AgentPerson,omitempty"`
	RecordTarget      *hl7v3.RecordTarget `xml:"recordTarget,omitempty"`
	PertinentLineItem *hl7v3.LineItem     `xml:"pertinentLineItem,omitempty"`
}

type FragmentsToBeHashed struct {
	Fragment []SignatureFragment `xml:"Fragment"`
}

// AlgorithmIdentifier names one of the fixed xmldsig algorithms.
type AlgorithmIdentifier struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type SignedInfo struct {
	Xmlns                  string              `xml:"xmlns,attr"`
	CanonicalizationMethod AlgorithmIdentifier `xml:"CanonicalizationMethod"`
	SignatureMethod        AlgorithmIdentifier `xml:"SignatureMethod"`
	Reference              SignedInfoReference `xml:"Reference"`
}

type SignedInfoReference struct {
	Transforms   Transforms          `xml:"Transforms"`
	DigestMethod AlgorithmIdentifier `xml:"DigestMethod"`
	DigestValue  string              `xml:"DigestValue"`
}

type Transforms struct {
	Transform AlgorithmIdentifier `xml:"Transform"`
}

// ExtractSignatureFragments pulls the signed subset of the parent
// prescription in its fixed order: author time and prescription id, author
// agent person, record target, then each line item in document order. Every
// fragment carries the HL7 namespace because the signing device serializes
// the fragments as standalone documents.
func ExtractSignatureFragments(parentPrescription hl7v3.ParentPrescription) FragmentsToBeHashed {
	pertinentPrescription := parentPrescription.PertinentInformation1.PertinentPrescription

	time := pertinentPrescription.Author.Time
	time.Xmlns = hl7v3Namespace
	id := pertinentPrescription.ID[0]
	id.Xmlns = hl7v3Namespace
	agentPerson := pertinentPrescription.Author.AgentPerson
	agentPerson.Xmlns = hl7v3Namespace
	recordTarget := parentPrescription.RecordTarget
	recordTarget.Xmlns = hl7v3Namespace

	fragments := []SignatureFragment{
		{Time: &time, ID: &id},
		{AgentPerson: &agentPerson},
		{RecordTarget: &recordTarget},
	}

	for _, pertinentInformation2 := range pertinentPrescription.PertinentInformation2 {
		lineItem := pertinentInformation2.PertinentLineItem
		lineItem.Xmlns = hl7v3Namespace
		if lineItem.RepeatNumber != nil {
			repeatNumber := *lineItem.RepeatNumber
			repeatNumber.Low = nil
			lineItem.RepeatNumber = &repeatNumber
		}
		fragments = append(fragments, SignatureFragment{PertinentLineItem: &lineItem})
	}

	return FragmentsToBeHashed{Fragment: fragments}
}

// CreateDigest canonicalizes the signature fragments and computes the
// base64-encoded SHA-1 digest the clinician signs.
func CreateDigest(fragments FragmentsToBeHashed) (string, error) {
	canonical, err := canonxml.MarshalElement("FragmentsToBeHashed", fragments)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(canonical))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func CreateSignedInfo(digestValue string) SignedInfo {
	return SignedInfo{
		Xmlns:                  xmldsigNamespace,
		CanonicalizationMethod: AlgorithmIdentifier{Algorithm: canonicalizationAlgorithm},
		SignatureMethod:        AlgorithmIdentifier{Algorithm: signatureAlgorithm},
		Reference: SignedInfoReference{
			Transforms:   Transforms{Transform: AlgorithmIdentifier{Algorithm: canonicalizationAlgorithm}},
			DigestMethod: AlgorithmIdentifier{Algorithm: digestAlgorithm},
			DigestValue:  digestValue,
		},
	}
}

// ConvertBundleToSignedInfoParameters implements the prepare operation:
// translate the bundle, digest the signature fragments and return the
// canonical SignedInfo ready for signing, with the timestamp the digest was
// computed over and the expected signing algorithm.
func ConvertBundleToSignedInfoParameters(bundle *fhir.Bundle) (*fhir.Parameters, error) {
	parentPrescription, err := ConvertBundleToParentPrescription(bundle)
	if err != nil {
		return nil, err
	}

	fragments := ExtractSignatureFragments(parentPrescription)
	digestValue, err := CreateDigest(fragments)
	if err != nil {
		return nil, err
	}

	signedInfo, err := canonxml.MarshalElement("SignedInfo", CreateSignedInfo(digestValue))
	if err != nil {
		return nil, err
	}

	timestamp, err := ConvertHL7V3DateTimeToISODateTime(
		parentPrescription.PertinentInformation1.PertinentPrescription.Author.Time,
	)
	if err != nil {
		return nil, err
	}
	return &fhir.Parameters{
		ResourceType: "Parameters",
		Parameter: []fhir.Parameter{
			{Name: "digest", ValueString: base64.StdEncoding.EncodeToString([]byte(signedInfo))},
			{Name: "timestamp", ValueString: timestamp},
			{Name: "algorithm", ValueString: signingAlgorithmName},
		},
	}, nil
}
