package demoguard

import (
	"encoding/json"
)

// Tenant-designating fields recognized in write payloads. The shapes come
// from the assessment API: a flat customerId, a customer object, and a
// wrapped assessmentCase document.
const (
	fieldCustomerID         = "customerId"
	fieldOrgID              = "orgId"
	fieldCustomer           = "customer"
	fieldAssessmentCase     = "assessmentCase"
	fieldCustomerObjectID   = "id"
	fieldCaseCustomerID     = "customerId"
	violationNone           = ""
	violationFlatCustomer   = "customerId"
	violationFlatOrg        = "orgId"
	violationNestedCustomer = "customer.id"
	violationCaseCustomer   = "assessmentCase.customerId"
	violationCaseOrg        = "assessmentCase.orgId"
)

// inspectPayload enforces the demo tenant on a write body.
//
// With pin set, every recognized tenant field is overwritten to the demo
// tenant (a missing flat customerId is added), tolerating absent or wrong
// client values. Without pin, any recognized field that names a different
// tenant is a violation and the offending field path is returned.
//
// Numeric orgId fields cannot be matched against the demo tenant alias, so
// they are stripped when pinning (handlers fall back to the caller's own
// organization) and refused outright when validating.
//
// Bodies that are not JSON objects carry no tenant designation and pass
// through unchanged.
func inspectPayload(body []byte, demoTenant string, pin bool) (out []byte, violation string, changed bool) {
	if len(body) == 0 {
		if !pin {
			return body, violationNone, false
		}
		out, _ = json.Marshal(map[string]any{fieldCustomerID: demoTenant})
		return out, violationNone, true
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return body, violationNone, false
	}

	if pin {
		payload[fieldCustomerID] = demoTenant
		delete(payload, fieldOrgID)
		if customer, ok := payload[fieldCustomer].(map[string]any); ok {
			customer[fieldCustomerObjectID] = demoTenant
		}
		if doc, ok := payload[fieldAssessmentCase].(map[string]any); ok {
			doc[fieldCaseCustomerID] = demoTenant
			delete(doc, fieldOrgID)
		}

		encoded, err := json.Marshal(payload)
		if err != nil {
			return body, violationNone, false
		}
		return encoded, violationNone, true
	}

	if v, ok := payload[fieldCustomerID].(string); ok && v != demoTenant {
		return body, violationFlatCustomer, false
	}
	if _, ok := payload[fieldOrgID]; ok {
		return body, violationFlatOrg, false
	}
	if customer, ok := payload[fieldCustomer].(map[string]any); ok {
		if v, ok := customer[fieldCustomerObjectID].(string); ok && v != demoTenant {
			return body, violationNestedCustomer, false
		}
	}
	if doc, ok := payload[fieldAssessmentCase].(map[string]any); ok {
		if v, ok := doc[fieldCaseCustomerID].(string); ok && v != demoTenant {
			return body, violationCaseCustomer, false
		}
		if _, ok := doc[fieldOrgID]; ok {
			return body, violationCaseOrg, false
		}
	}

	return body, violationNone, false
}
