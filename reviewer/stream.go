package reviewer

// StreamReviewer drives the continuous-session widget model: one review
// session is opened for the whole transaction, each field set streams into
// it as an incremental screen, and a terminal finish step culminating in
// the fee closes it. It implements Gateway, so the engine's field
// selection and elision logic is identical on both widget families.
type StreamReviewer struct {
	gateway         StreamingGateway
	reviewStarted   bool
	displaySettings bool
	txExecuteScript bool
}

// NewStreamReviewer wraps a streaming display gateway.
func NewStreamReviewer(gateway StreamingGateway) *StreamReviewer {
	return &StreamReviewer{gateway: gateway}
}

// ReviewStarted reports whether a session is open.
func (s *StreamReviewer) ReviewStarted() bool {
	return s.reviewStarted
}

// SetDisplaySettings toggles the settings page of the session.
func (s *StreamReviewer) SetDisplaySettings(display bool) {
	s.displaySettings = display
}

// SetTxExecuteScript marks the transaction as executing a script, which
// switches the session wording to the risk-accepting variant.
func (s *StreamReviewer) SetTxExecuteScript(txExecuteScript bool) {
	s.txExecuteScript = txExecuteScript
}

// StartReview opens the session.
func (s *StreamReviewer) StartReview() error {
	message := "Review transaction to send assets"
	if s.txExecuteScript {
		message = "Review transaction"
	}
	if !s.gateway.Start(message, "") {
		s.gateway.SyncStatus(false)
		return ErrUserCancelled
	}
	s.reviewStarted = true
	return nil
}

// ReviewFields streams one field set into the open session. It implements
// Gateway; the message is carried by the session itself.
func (s *StreamReviewer) ReviewFields(message string, fields []Field) bool {
	if s.gateway.Continue(fields) {
		return true
	}
	s.gateway.SyncStatus(false)
	return false
}

// ReviewSelfTransfer substitutes a synthetic "Self-transfer" field for the
// usual address/amount pair and closes the session.
func (s *StreamReviewer) ReviewSelfTransfer(feeField Field) error {
	if s.txExecuteScript {
		return s.FinishReview([]Field{feeField})
	}
	return s.FinishReview([]Field{
		{Name: "Amount", Value: "Self-transfer"},
		feeField,
	})
}

// WarnExternalInputs gates the review behind an explicit continue/reject
// when any input address is not provably derived from the device's key
// tree.
func (s *StreamReviewer) WarnExternalInputs() error {
	approved := s.gateway.Warn(
		"External inputs",
		"This transaction has inputs from addresses not associated with this device.",
		"Continue",
		"Reject",
	)
	if !approved {
		return ErrUserCancelled
	}
	return nil
}

// FinishReview streams the fee fields as the final screen and closes the
// session with the signing confirmation.
func (s *StreamReviewer) FinishReview(feeFields []Field) error {
	if len(feeFields) == 0 {
		return ErrInternal
	}
	s.displaySettings = false
	if !s.ReviewFields("Fees", feeFields) {
		return ErrUserCancelled
	}
	message := "Sign transaction to send assets"
	if s.txExecuteScript {
		message = "Accept risk and sign transaction"
	}
	if !s.gateway.Finish(message) {
		s.gateway.SyncStatus(false)
		return ErrUserCancelled
	}
	s.gateway.SyncStatus(true)
	return nil
}

// Reset abandons the session state. The settings toggle survives a reset
// on purpose: reset also runs when pre-review checks fail, and the toggle
// is cleared in FinishReview instead.
func (s *StreamReviewer) Reset() {
	s.reviewStarted = false
	s.txExecuteScript = false
}
