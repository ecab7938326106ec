package main

import (
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"sealchat/internal/relay"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logrus.WithField("addr", *addr).Info("relay listening")
	if err := http.ListenAndServe(*addr, relay.NewServer()); err != nil {
		logrus.WithError(err).Fatal("relay stopped")
	}
}
