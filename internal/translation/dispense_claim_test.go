package translation

import (
	"testing"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

func prescriptionClaim() *fhir.Claim {
	return &fhir.Claim{
		ResourceType: "Claim",
		Contained:    []any{containedDispenserRole(), containedDispenserOrganization()},
		Extension: []fhir.Extension{
			{
				URL: groupIdentifierExtensionURL,
				Extension: []fhir.Extension{
					{
						URL: groupIdentifierShortFormURL,
						ValueIdentifier: &fhir.Identifier{
							System: prescriptionShortFormNumberSystem,
							Value:  "88AF6C-C81007-00001C",
						},
					},
					{
						URL: groupIdentifierLongFormURL,
						ValueIdentifier: &fhir.Identifier{
							System: "https://fhir.nhs.uk/Id/prescription",
							Value:  "a5b9dc81-ccf4-4dab-b887-3d88e557febb",
						},
					},
				},
			},
		},
		Identifier: []fhir.Identifier{
			{System: fhir.RFC4122System, Value: "430e4cb3-9d02-4b8b-a43c-d985692c2c93"},
		},
		Status:   "active",
		Use:      "claim",
		Created:  "2026-01-21T17:05:00+00:00",
		Provider: &fhir.Reference{Reference: "#performer"},
		Insurance: []fhir.ClaimInsurance{
			{
				Coverage: &fhir.Reference{
					Identifier: &fhir.Identifier{
						System: odsOrganizationCodeSystem,
						Value:  "T1450",
					},
					Display: "NHS BUSINESS SERVICES AUTHORITY",
				},
			},
		},
		Item: []fhir.ClaimItem{
			{
				Extension: []fhir.Extension{
					{
						URL: taskBusinessStatusExtensionURL,
						ValueCoding: &fhir.Coding{
							System:  "https://fhir.nhs.uk/CodeSystem/EPS-task-business-status",
							Code:    "0006",
							Display: "Dispensed",
						},
					},
				},
				ProgramCode: []fhir.CodeableConcept{
					{
						Coding: []fhir.Coding{
							{
								System:  chargeExemptionSystem,
								Code:    "0002",
								Display: "is under 16 years of age",
							},
						},
					},
					{
						Coding: []fhir.Coding{
							{
								System:  exemptionEvidenceSystem,
								Code:    "evidence-seen",
								Display: "Evidence Seen",
							},
						},
					},
				},
				Detail: []fhir.ClaimItemDetail{
					{
						Extension: []fhir.Extension{
							{
								URL: claimSequenceIdentifierExtensionURL,
								ValueIdentifier: &fhir.Identifier{
									System: "https://fhir.nhs.uk/Id/claim-sequence-identifier",
									Value:  "d2e840ab-2c60-4e48-9b53-1e4f35b4a89f",
								},
							},
							{
								URL: claimMedicationRequestReferenceURL,
								ValueReference: &fhir.Reference{
									Identifier: &fhir.Identifier{
										System: lineItemNumberSystem,
										Value:  "a54219b8-f741-4c47-b662-e4f8dfa49ab6",
									},
								},
							},
						},
						Modifier: []fhir.CodeableConcept{
							{
								Coding: []fhir.Coding{
									{
										System:  medicationDispenseTypeSystem,
										Code:    "0001",
										Display: "Item fully dispensed",
									},
								},
							},
						},
						ProgramCode: []fhir.CodeableConcept{
							{
								Coding: []fhir.Coding{
									{
										System:  prescriptionChargeSystem,
										Code:    "not-paid",
										Display: "Not Paid",
									},
								},
							},
							{
								Coding: []fhir.Coding{
									{
										System:  dispensingEndorsementSystem,
										Code:    "NDEC",
										Display: "No Dispenser Endorsement Code",
									},
								},
							},
						},
						SubDetail: []fhir.ClaimItemSubDetail{
							{
								ProductOrService: &fhir.CodeableConcept{
									Coding: []fhir.Coding{
										{
											System:  fhir.SnomedSystem,
											Code:    "39720311000001101",
											Display: "Paracetamol 500mg soluble tablets",
										},
									},
								},
								Quantity: &fhir.Quantity{
									Value:  "28",
									Unit:   "tablet",
									System: "http://snomed.info/sct",
									Code:   "428673006",
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestConvertClaimToDispenseClaim(t *testing.T) {
	dispenseClaim, err := ConvertClaimToDispenseClaim(prescriptionClaim())
	if err != nil {
		t.Fatalf("ConvertClaimToDispenseClaim() error: %v", err)
	}

	if got, want := dispenseClaim.ID.Root, "430E4CB3-9D02-4B8B-A43C-D985692C2C93"; got != want {
		t.Errorf("claim id = %q, want %q", got, want)
	}
	if got, want := dispenseClaim.EffectiveTime.Value, "20260121170500"; got != want {
		t.Errorf("effective time = %q, want %q", got, want)
	}

	payor := dispenseClaim.PrimaryInformationRecipient.AgentOrg.AgentOrganizationSDS
	if got, want := payor.ID.Extension, "T1450"; got != want {
		t.Errorf("payor ods code = %q, want %q", got, want)
	}
	if got, want := payor.Name.Value, "NHS BUSINESS SERVICES AUTHORITY"; got != want {
		t.Errorf("payor name = %q, want %q", got, want)
	}

	supplyHeader := dispenseClaim.PertinentInformation1.PertinentSupplyHeader
	if supplyHeader.RepeatNumber != nil {
		t.Errorf("unexpected repeat number for acute claim: %+v", supplyHeader.RepeatNumber)
	}
	if got, want := supplyHeader.LegalAuthenticator.Time.Value, "20260121170500"; got != want {
		t.Errorf("legal authenticator time = %q, want %q", got, want)
	}
	authenticator := supplyHeader.LegalAuthenticator.AgentPerson
	if got, want := authenticator.ID.Extension, "555086415105"; got != want {
		t.Errorf("authenticator role profile id = %q, want %q", got, want)
	}
	if got, want := authenticator.RepresentedOrganization.ID.Extension, "VNE51"; got != want {
		t.Errorf("authenticator organization = %q, want %q", got, want)
	}

	status := supplyHeader.PertinentInformation3.PertinentPrescriptionStatus
	if got, want := status.Value.Code, "0006"; got != want {
		t.Errorf("prescription status = %q, want %q", got, want)
	}
	prescriptionID := supplyHeader.PertinentInformation4.PertinentPrescriptionID
	if got, want := prescriptionID.Value.Extension, "88AF6C-C81007-00001C"; got != want {
		t.Errorf("short form prescription id = %q, want %q", got, want)
	}
	originalRef := supplyHeader.InFulfillmentOf.PriorOriginalPrescriptionRef
	if got, want := originalRef.ID.Root, "A5B9DC81-CCF4-4DAB-B887-3D88E557FEBB"; got != want {
		t.Errorf("original prescription ref = %q, want %q", got, want)
	}

	if got, want := len(supplyHeader.PertinentInformation1), 1; got != want {
		t.Fatalf("claimed line items = %d, want %d", got, want)
	}
	lineItem := supplyHeader.PertinentInformation1[0].PertinentSuppliedLineItem
	if got, want := lineItem.ID.Root, "D2E840AB-2C60-4E48-9B53-1E4F35B4A89F"; got != want {
		t.Errorf("claimed line item id = %q, want %q", got, want)
	}
	if got, want := lineItem.PertinentInformation3.PertinentItemStatus.Value.Code, "0001"; got != want {
		t.Errorf("item status = %q, want %q", got, want)
	}
	if got, want := lineItem.InFulfillmentOf.PriorOriginalItemRef.ID.Root, "A54219B8-F741-4C47-B662-E4F8DFA49AB6"; got != want {
		t.Errorf("prior original item ref = %q, want %q", got, want)
	}

	if got, want := len(lineItem.Component), 1; got != want {
		t.Fatalf("claimed quantities = %d, want %d", got, want)
	}
	claimedQuantity := lineItem.Component[0].SuppliedLineItemQuantity
	if got, want := claimedQuantity.Quantity.Value, "28"; got != want {
		t.Errorf("claimed quantity = %q, want %q", got, want)
	}
	chargePayment := claimedQuantity.PertinentInformation1.PertinentChargePayment
	if got, want := chargePayment.Value.Value, "false"; got != want {
		t.Errorf("charge paid = %q, want %q", got, want)
	}
	if got, want := len(claimedQuantity.PertinentInformation2), 1; got != want {
		t.Fatalf("endorsements = %d, want %d", got, want)
	}
	endorsement := claimedQuantity.PertinentInformation2[0].PertinentDispensingEndorsement
	if got, want := endorsement.Value.Code, "NDEC"; got != want {
		t.Errorf("endorsement = %q, want %q", got, want)
	}
	if endorsement.Text != nil {
		t.Errorf("unexpected endorsement supporting info: %q", endorsement.Text.Value)
	}

	if dispenseClaim.Coverage == nil {
		t.Fatal("expected coverage for a claimed exemption")
	}
	chargeExempt := dispenseClaim.Coverage.CoveringChargeExempt
	if got, want := chargeExempt.NegationInd, "false"; got != want {
		t.Errorf("charge exempt negation = %q, want %q", got, want)
	}
	if got, want := chargeExempt.Value.Code, "0002"; got != want {
		t.Errorf("charge exemption code = %q, want %q", got, want)
	}
	if chargeExempt.Authorization == nil {
		t.Fatal("expected evidence seen authorization")
	}
	if got, want := chargeExempt.Authorization.AuthorizingEvidenceSeen.NegationInd, "false"; got != want {
		t.Errorf("evidence seen negation = %q, want %q", got, want)
	}

	releaseRef := dispenseClaim.SequelTo.PriorPrescriptionReleaseEventRef
	if got, want := releaseRef.ID.Root, "FFFFFFFF-FFFF-4FFF-BFFF-FFFFFFFFFFFF"; got != want {
		t.Errorf("release event ref = %q, want %q", got, want)
	}
}

func TestConvertClaimToDispenseClaim_NoExemption(t *testing.T) {
	claim := prescriptionClaim()
	claim.Item[0].ProgramCode = []fhir.CodeableConcept{
		{
			Coding: []fhir.Coding{
				{
					System:  chargeExemptionSystem,
					Code:    "0001",
					Display: "Patient has paid appropriate charges",
				},
			},
		},
	}

	converted, err := ConvertClaimToDispenseClaim(claim)
	if err != nil {
		t.Fatalf("ConvertClaimToDispenseClaim() error: %v", err)
	}
	if converted.Coverage == nil {
		t.Fatal("expected coverage for the no exemption code")
	}
	chargeExempt := converted.Coverage.CoveringChargeExempt
	if got, want := chargeExempt.NegationInd, "true"; got != want {
		t.Errorf("charge exempt negation = %q, want %q", got, want)
	}
	if chargeExempt.Authorization != nil {
		t.Error("unexpected authorization without evidence codes")
	}
}

func TestConvertClaimToDispenseClaim_RepeatNumbersUsedAsIs(t *testing.T) {
	claim := prescriptionClaim()
	claim.Item[0].Detail[0].Extension = append(claim.Item[0].Detail[0].Extension, fhir.Extension{
		URL: epsRepeatInformationURL,
		Extension: []fhir.Extension{
			{URL: numberOfRepeatsIssuedURL, ValueInteger: "3"},
			{URL: numberOfRepeatsAllowedURL, ValueInteger: "6"},
		},
	})

	converted, err := ConvertClaimToDispenseClaim(claim)
	if err != nil {
		t.Fatalf("ConvertClaimToDispenseClaim() error: %v", err)
	}
	supplyHeader := converted.PertinentInformation1.PertinentSupplyHeader
	if supplyHeader.RepeatNumber == nil {
		t.Fatal("expected a supply header repeat number")
	}
	if got, want := supplyHeader.RepeatNumber.Low.Value, "3"; got != want {
		t.Errorf("repeats issued = %q, want %q", got, want)
	}
	if got, want := supplyHeader.RepeatNumber.High.Value, "6"; got != want {
		t.Errorf("repeats allowed = %q, want %q", got, want)
	}
	lineItem := supplyHeader.PertinentInformation1[0].PertinentSuppliedLineItem
	if lineItem.RepeatNumber == nil {
		t.Fatal("expected a line item repeat number")
	}
}

func TestConvertClaimToDispenseClaim_UnsupportedChargeCode(t *testing.T) {
	claim := prescriptionClaim()
	claim.Item[0].Detail[0].ProgramCode[0].Coding[0].Code = "part-paid"

	_, err := ConvertClaimToDispenseClaim(claim)
	if err == nil {
		t.Fatal("expected error for an unsupported charge code")
	}
	if got, want := err.Error(), "Unsupported prescription charge code"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}
