// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - completion.*
//   - speech.*
//   - voices.* and voice.*
//   - memory.*
//
// Every event carrying an ExchangeID refers to one prompt or one speech
// request; all events of that request share the same ID.
//
// completion events
//
//   - CompletionDispatched (completion.dispatched): the prompt left the queue
//     and is being sent.
//   - CompletionSucceeded (completion.succeeded): a reply arrived and was
//     recorded in memory.
//   - CompletionFailed (completion.failed): the exchange failed; memory is
//     unchanged.
//
// speech events
//
//   - SpeechSynthesisStarted (speech.synthesis_started): synthesis of the last
//     response started.
//   - SpeechPlaybackStarted (speech.playback_started): the artifact was
//     synthesized and playback started.
//   - SpeechEnded (speech.ended): playback finished.
//   - SpeechFailed (speech.failed): synthesis or playback failed; Stage names
//     which.
//
// voice events
//
//   - VoicesLoaded (voices.loaded): the voice catalog was (re)loaded.
//   - VoicesFailed (voices.failed): loading the catalog failed, speech stays
//     disabled.
//   - VoiceSelected (voice.selected): the current voice changed.
//
// memory events
//
//   - MemoryReset (memory.reset): a reset was requested; Cleared reports
//     whether there was anything to clear.
package events
