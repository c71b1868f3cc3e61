package hermes

// Subjects published and consumed by nexus.
const (
	SubjectTagRequested    = "nexus.profile.tag.requested"
	SubjectProfileTagged   = "nexus.profile.tagged"
	SubjectProfileFailed   = "nexus.profile.failed"
	SubjectTalentConfirmed = "nexus.talent.confirmed"
	SubjectTalentRemoved   = "nexus.talent.removed"
	SubjectRegistered      = "swarm.agent.nexus.registered"

	// Reaction events relayed from Slack by the swarm gateway.
	SubjectSlackReaction = "swarm.slack.reaction"
)

// ProfileTagged announces a freshly reconciled profile awaiting review.
type ProfileTagged struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source,omitempty"`
	Model     string `json:"model"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Education string `json:"edu"`
	Region    string `json:"intl"`
	Profile   any    `json:"profile"`
}

// ProfileFailed reports a tagging request that produced no profile.
type ProfileFailed struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source,omitempty"`
	Reason    string `json:"reason"` // no_input | inference | reconcile
	Error     string `json:"error"`
}

// TalentChanged reports an append to or removal from the talent pool.
type TalentChanged struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
