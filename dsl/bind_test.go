package dsl_test

import (
	"context"
	"testing"

	valise "github.com/soratobu/valise"
	d "github.com/soratobu/valise/dsl"
)

type serverConfig struct {
	Name string `json:"name"`
	Port int64  `json:"port"`
	TLS  bool   `json:"tls"`
}

func TestBind_Struct(t *testing.T) {
	ctx := context.Background()
	schema := d.Object().
		Field("name", d.String().MinLen(1)).Required().
		Field("port", d.Int().Min(1).Max(65535)).Default(8080).
		Field("tls", d.Bool()).Default(false).
		MustBuild()

	cfg, err := d.Bind[serverConfig](ctx, schema, map[string]any{"name": "api"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if cfg.Name != "api" || cfg.Port != 8080 || cfg.TLS {
		t.Fatalf("bound config, got %+v", cfg)
	}
}

func TestBind_ValidationIssuesPassThrough(t *testing.T) {
	ctx := context.Background()
	schema := d.Object().
		Field("name", d.String()).Required().
		MustBuild()

	_, err := d.Bind[serverConfig](ctx, schema, map[string]any{})
	iss := mustIssues(t, err)
	if iss[0].Code != valise.CodeRequired || iss[0].Path != "/name" {
		t.Fatalf("validation issues pass through, got %v", iss)
	}
}
