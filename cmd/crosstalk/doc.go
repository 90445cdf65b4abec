// Command crosstalk transcribes recordings, attributes speech to speakers
// and labels plain transcripts, keeping a history of every run.
package main
