package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// HandleTerminationProcess вызывает cleanup по SIGINT или SIGTERM.
// Возвращаемый канал закрывается после завершения cleanup.
func HandleTerminationProcess(cleanup func()) <-chan struct{} {
	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		signal.Stop(c)
		cleanup()
		close(done)
	}()

	return done
}
