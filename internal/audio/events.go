// Package audio plays a music file and detects onsets and beats in it.
package audio

// Onset is a sudden change in the signal, such as a new note or hit.
type Onset struct {
	// Time is the stream position of the onset in seconds.
	Time float64
}

// Beat is a pulse aligned to the estimated tempo.
type Beat struct {
	Time       float64
	TempoBPM   float64
	Confidence float64
}
