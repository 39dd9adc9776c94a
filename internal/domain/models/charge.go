package models

// ChargeOutcome is the four-way classification every gateway must map its
// native responses onto. The charge engine reacts only to this tag.
type ChargeOutcome string

const (
	// ChargeOutcomeSuccess: the gateway approved the charge
	ChargeOutcomeSuccess ChargeOutcome = "success"
	// ChargeOutcomeFailTry: business decline worth another scheduled attempt
	ChargeOutcomeFailTry ChargeOutcome = "fail_try"
	// ChargeOutcomeFailStop: permanent business decline, the chain must end
	ChargeOutcomeFailStop ChargeOutcome = "fail_stop"
	// ChargeOutcomeGatewayFail: transport/infrastructure failure at the gateway
	// boundary, retried at a fixed delay without consuming the retry budget
	ChargeOutcomeGatewayFail ChargeOutcome = "gateway_fail"
)

// ChargeResult carries the normalized gateway response for one attempt
type ChargeResult struct {
	Outcome       ChargeOutcome
	ResultCode    string
	ResultMessage string
	// Response is the raw gateway payload kept for the attempt audit log
	Response []byte
}

// Successful reports whether the gateway approved the charge
func (r *ChargeResult) Successful() bool {
	return r != nil && r.Outcome == ChargeOutcomeSuccess
}
