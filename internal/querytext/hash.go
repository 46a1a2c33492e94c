package querytext

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// DomainPrepared is the domain prefix for prepared-query identity.
// Version suffix enables future algorithm migration.
const DomainPrepared = "queryprep/prepared/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash computes a content-addressed identity for a prepared query.
// The hash is stable across processes given the same query name, target
// version, and serialization output; the prepare log uses it to detect
// drift in serializer behavior between runs.
//
// The Text key is omitted for degenerate (nil-text) documents rather than
// encoded as null, since canonical JSON forbids nulls.
func ContentHash(queryName, targetVersion string, p *PreparedQuery) (string, error) {
	formals := make(respval.Array, len(p.Formals))
	for i, f := range p.Formals {
		formals[i] = respval.Object{
			"name": respval.String(f.Name),
			"type": respval.String(string(f.Type)),
		}
	}

	obj := respval.Object{
		"query_name":     respval.String(queryName),
		"target_version": respval.String(targetVersion),
		"formals":        formals,
		"defaults_count": respval.Int(int64(len(p.Defaults))),
	}
	if p.Text != nil {
		obj["text"] = respval.String(*p.Text)
	}

	canonical, err := respval.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainPrepared, canonical), nil
}
