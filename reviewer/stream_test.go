package reviewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStreamingGateway scripts the outcome of each session step.
type fakeStreamingGateway struct {
	startOK    bool
	continueOK bool
	finishOK   bool
	warnOK     bool

	started   []string
	continued [][]Field
	finished  []string
	warnings  []string
	synced    []bool
}

func approvingStreamGateway() *fakeStreamingGateway {
	return &fakeStreamingGateway{startOK: true, continueOK: true, finishOK: true, warnOK: true}
}

func (g *fakeStreamingGateway) Start(message, subMessage string) bool {
	g.started = append(g.started, message)
	return g.startOK
}

func (g *fakeStreamingGateway) Continue(fields []Field) bool {
	g.continued = append(g.continued, fields)
	return g.continueOK
}

func (g *fakeStreamingGateway) Finish(message string) bool {
	g.finished = append(g.finished, message)
	return g.finishOK
}

func (g *fakeStreamingGateway) Warn(title, message, confirm, reject string) bool {
	g.warnings = append(g.warnings, title)
	return g.warnOK
}

func (g *fakeStreamingGateway) SyncStatus(approved bool) {
	g.synced = append(g.synced, approved)
}

func TestStreamReviewSession(t *testing.T) {
	gateway := approvingStreamGateway()
	s := NewStreamReviewer(gateway)

	require.NoError(t, s.StartReview())
	assert.True(t, s.ReviewStarted())
	assert.Equal(t, []string{"Review transaction to send assets"}, gateway.started)

	assert.True(t, s.ReviewFields("Output #0", []Field{{Name: "Address", Value: "addr"}}))

	feeFields := []Field{{Name: "Fees", Value: "0.002 ALPH"}}
	require.NoError(t, s.FinishReview(feeFields))
	assert.Equal(t, []string{"Sign transaction to send assets"}, gateway.finished)
	assert.Equal(t, feeFields, gateway.continued[len(gateway.continued)-1])
	assert.Equal(t, []bool{true}, gateway.synced)
}

func TestStreamReviewExecuteScriptWording(t *testing.T) {
	gateway := approvingStreamGateway()
	s := NewStreamReviewer(gateway)
	s.SetTxExecuteScript(true)

	require.NoError(t, s.StartReview())
	require.NoError(t, s.FinishReview([]Field{{Name: "Fees", Value: "0.002 ALPH"}}))

	assert.Equal(t, []string{"Review transaction"}, gateway.started)
	assert.Equal(t, []string{"Accept risk and sign transaction"}, gateway.finished)
}

func TestStreamReviewRejections(t *testing.T) {
	t.Run("rejected at start", func(t *testing.T) {
		gateway := approvingStreamGateway()
		gateway.startOK = false
		s := NewStreamReviewer(gateway)
		require.ErrorIs(t, s.StartReview(), ErrUserCancelled)
		assert.False(t, s.ReviewStarted())
		assert.Equal(t, []bool{false}, gateway.synced)
	})

	t.Run("rejected mid-stream", func(t *testing.T) {
		gateway := approvingStreamGateway()
		gateway.continueOK = false
		s := NewStreamReviewer(gateway)
		require.NoError(t, s.StartReview())
		assert.False(t, s.ReviewFields("Output #0", []Field{{Name: "Address", Value: "addr"}}))
		assert.Equal(t, []bool{false}, gateway.synced)
	})

	t.Run("rejected at finish", func(t *testing.T) {
		gateway := approvingStreamGateway()
		gateway.finishOK = false
		s := NewStreamReviewer(gateway)
		require.NoError(t, s.StartReview())
		err := s.FinishReview([]Field{{Name: "Fees", Value: "0.002 ALPH"}})
		require.ErrorIs(t, err, ErrUserCancelled)
		assert.Equal(t, []bool{false}, gateway.synced)
	})
}

func TestStreamReviewSelfTransfer(t *testing.T) {
	gateway := approvingStreamGateway()
	s := NewStreamReviewer(gateway)
	require.NoError(t, s.StartReview())

	feeField := Field{Name: "Fees", Value: "0.001 ALPH"}
	require.NoError(t, s.ReviewSelfTransfer(feeField))

	last := gateway.continued[len(gateway.continued)-1]
	require.Len(t, last, 2)
	assert.Equal(t, Field{Name: "Amount", Value: "Self-transfer"}, last[0])
	assert.Equal(t, feeField, last[1])
}

func TestWarnExternalInputs(t *testing.T) {
	gateway := approvingStreamGateway()
	s := NewStreamReviewer(gateway)
	require.NoError(t, s.WarnExternalInputs())
	assert.Equal(t, []string{"External inputs"}, gateway.warnings)

	gateway.warnOK = false
	require.ErrorIs(t, s.WarnExternalInputs(), ErrUserCancelled)
}

func TestStreamReviewerReset(t *testing.T) {
	gateway := approvingStreamGateway()
	s := NewStreamReviewer(gateway)
	s.SetTxExecuteScript(true)
	s.SetDisplaySettings(true)
	require.NoError(t, s.StartReview())

	s.Reset()
	assert.False(t, s.ReviewStarted())
	// The settings toggle is cleared by FinishReview, not by Reset.
	assert.True(t, s.displaySettings)
}
