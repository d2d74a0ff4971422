package universe

import (
	"context"
	"time"
)

//ChanSource reads the commands queued by the key-event reader
//the channel has a single reader, every queued command is delivered once and in order
type ChanSource struct {
	commandCh <-chan Command
}

//NewChanSource creates the source, a nil channel never delivers and only times out
func NewChanSource(commandCh <-chan Command) *ChanSource {
	return &ChanSource{commandCh: commandCh}
}

//Next waits for the command up to d
//returns CommandNone on timeout, CommandQuit when the channel is closed
func (s *ChanSource) Next(ctx context.Context, d time.Duration) (Command, error) {
	//a queued command wins over an expired or zero interval
	select {
	case cmd, ok := <-s.commandCh:
		return received(cmd, ok), nil
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return CommandNone, ctx.Err()
	case cmd, ok := <-s.commandCh:
		return received(cmd, ok), nil
	case <-timer.C:
		return CommandNone, nil
	}
}

func received(cmd Command, ok bool) Command {
	if !ok {
		return CommandQuit
	}
	return cmd
}
