// Package workflow implements the recruitment pipeline as a durable,
// resumable state machine.
//
// The process is a directed graph of named steps: JD generation, job
// posting, application monitoring, semantic shortlisting, voice
// prescreening, response review, and interview scheduling or rejection.
// Two human-approval gates (JD sign-off, shortlist sign-off) pause
// execution via the WaitForHuman routing sentinel; a later Resume call
// re-enters the graph exactly where it stopped.
//
// All persisted data lives in WorkflowState; the engine checkpoints it
// through a CheckpointStore after every node so execution survives
// process restarts. A DistributedLocker serializes concurrent
// invocations per job.
package workflow
