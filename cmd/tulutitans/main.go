package main

import (
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ajithkumarky/tulutitans/internal/database"
	"github.com/ajithkumarky/tulutitans/internal/model"
	"github.com/ajithkumarky/tulutitans/internal/server"
	"github.com/ajithkumarky/tulutitans/internal/server/service"
)

const dbname = "tulutitans.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "tulutitans",
		Short:   "Tulu Titans vocabulary game server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	importCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(importCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func konf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(cfg), yaml.Parser()); err != nil {
		return nil, err
	}
	return k, nil
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

func kdf(l int, k []byte) []byte {
	nhash := func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}

	payload := make([]byte, l)

	kdf := hkdf.New(nhash, k, nil, nil)
	_, err := io.ReadFull(kdf, payload)
	if err != nil {
		panic(err)
	}

	return payload
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			k, err := konf()
			if err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(k.String("database_path")))
		},
	}

	//
	//
	importCmd = &coral.Command{
		Use:   "import VOCABULARY_JSON",
		Short: "Load vocabulary entries from a JSON file",
		Args:  coral.ExactArgs(1),
		RunE: func(_ *coral.Command, args []string) error {
			k, err := konf()
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "could not read vocabulary file")
			}

			var vocabularies []*model.Vocabulary
			if err := json.Unmarshal(payload, &vocabularies); err != nil {
				return errors.Wrap(err, "could not parse vocabulary file")
			}

			db, err := database.StormOpen(dbnameWithPath(k.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			for _, vocabulary := range vocabularies {
				if err := db.Save(vocabulary); err != nil {
					return errors.Wrapf(err, "could not save %q", vocabulary.TuluWord)
				}
			}

			log.Printf("Imported %d vocabulary entries\n", len(vocabularies))
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			k, err := konf()
			if err != nil {
				return err
			}

			if k.String("secret_key") == "" {
				return errors.New("secret_key not found")
			}

			if logfile := k.String("log_file"); logfile != "" {
				logrus.SetOutput(&lumberjack.Logger{
					Filename:   logfile,
					MaxSize:    20, // megabytes
					MaxBackups: 5,
				})
			}

			origins := k.Strings("allowed_origins")
			if len(origins) == 0 {
				return errors.New("allowed_origins not found")
			}

			db, err := database.StormOpen(dbnameWithPath(k.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.Controller{
				Version:           version,
				Database:          db,
				SigningKey:        kdf(32, k.MustBytes("secret_key")),
				AllowedOrigins:    origins,
				LoginFailureDelay: service.FailureDelay,
				AssetsPath:        k.String("assets_path"),
			})
			server.PrintRoutes(engine)

			address := k.String("address")
			log.Printf("Server listening on %s\n", address)
			return errors.Wrap(engine.Start(address), "could not run server")
		},
	}
)
