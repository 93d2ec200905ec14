// Package main issues an access token for a ledger operator.
//
// Usage: tokengen [-subject name] [-duration 1h]
package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	duration := flag.Duration("duration", 0, "token lifetime, ACCESS_TOKEN_DURATION when zero")
	flag.Parse()

	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	maker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	if *duration == 0 {
		*duration = config.AccessTokenDuration
	}

	token, payload, err := maker.CreateToken(*subject, *duration)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token")
	}

	log.Info().
		Str("subject", payload.Subject).
		Time("expired_at", payload.ExpiredAt).
		Msg("token issued")

	fmt.Println(token)
}
