// Copyright (c) Microsoft. All rights reserved.

// Package credential selects the Entra ID credential used by the samples.
package credential

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// EnvVar names the variable read by [FromEnv].
const EnvVar = "AZURE_CREDENTIAL"

// Kind is a credential source.
type Kind string

const (
	// KindDefault tries environment, workload identity, managed identity and
	// developer tool credentials in turn.
	KindDefault Kind = "default"

	// KindCLI uses the account signed in with `az login`.
	KindCLI Kind = "cli"
)

// ParseKind parses a credential kind. The empty string is [KindDefault].
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindDefault, nil
	case KindDefault, KindCLI:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown credential %q (want default or cli)", af.ErrConfiguration, s)
	}
}

// New creates a credential of the given kind.
func New(kind Kind) (azcore.TokenCredential, error) {
	var (
		cred azcore.TokenCredential
		err  error
	)
	switch kind {
	case KindCLI:
		cred, err = azidentity.NewAzureCLICredential(nil)
	case KindDefault, "":
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	default:
		return nil, fmt.Errorf("%w: unknown credential %q", af.ErrConfiguration, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s credential: %w", af.ErrInitialization, kind, err)
	}
	slog.Debug("credential created", "kind", kind)
	return cred, nil
}

// FromEnv creates the credential named by AZURE_CREDENTIAL.
func FromEnv() (azcore.TokenCredential, error) {
	kind, err := ParseKind(os.Getenv(EnvVar))
	if err != nil {
		return nil, err
	}
	return New(kind)
}
