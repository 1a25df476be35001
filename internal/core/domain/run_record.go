package domain

import "time"

// RunRecord is the persisted outcome of one toolchain build.
type RunRecord struct {
	ID              string         `json:"id"`
	Label           string         `json:"label,omitzero"`
	Triplet         string         `json:"triplet"`
	Family          CompilerFamily `json:"family"`
	LibC            LibC           `json:"libc"`
	Fingerprint     string         `json:"fingerprint,omitzero"`
	InstallDir      string         `json:"install_dir,omitzero"`
	Status          RunStatus      `json:"status"`
	FailedComponent Component      `json:"failed_component,omitzero"`
	FailedStage     Stage          `json:"failed_stage,omitzero"`
	Error           string         `json:"error,omitzero"`
	Archive         string         `json:"archive,omitzero"`
	Checksum        string         `json:"checksum,omitzero"`
	Started         time.Time      `json:"started,omitzero"`
	Finished        time.Time      `json:"finished,omitzero"`
}

// Duration is the wall-clock time of the run.
func (r RunRecord) Duration() time.Duration {
	if r.Finished.IsZero() || r.Started.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
