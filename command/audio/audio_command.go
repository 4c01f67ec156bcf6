package audio

import (
	"telconv/command"
)

// AudioCommand extends the base Command interface with audio-specific operations.
type AudioCommand interface {
	command.Command
	SetBinary(path string) AudioCommand
	SetCodec(codec string) AudioCommand
	SetSampleRate(rate int) AudioCommand
	SetChannels(channels int) AudioCommand
	SetFilters(filter string) AudioCommand
	SetOverwrite(overwrite bool) AudioCommand
}
