package environment

import (
	"maps"
	"strings"
)

// knownChecksums pins the SHA-256 of every released launcher that can be selected by a project.
var knownChecksums = map[string]string{
	"2.8.5": "30293da62cf6df08581235b5d9a468c9005007bf4b6315b8a79eedc34080f192",
	"2.8.4": "ee63d29dd6eabf5743019ed91ed2319855a88fd4725608853cb0d277a2ef96bc",
	"2.8.3": "db68236020581cd8835033de468c60619e6ba3d3e0a868ededb2a6b766f4914b",
	"2.8.2": "7a54b870d50af0dc7d3cbcaeee7fef1e62e460baaf466df06ad2d8cc90912ad5",
	"2.8.1": "36b776ddb76a13a05ebc06cc73e7b6ef46c392a4b7bd073d5dde7d2e773876cc",
	"2.8.0": "e384ba8e964bb580fa001609cc17ecc24f9d62f445adcf74705de6e45f1aa618",
	"2.7.2": "2efb2884096329eb753681c583660cb237e634e6047ca3dd20e0ea208e0d868f",
	"2.7.1": "7f3b931e0133b34e9af25b207f678348ba00aa88f8f2552151e78b32097fd2a3",
	"2.7.0": "b423a7b81ddf5171133321929a931f41bab743f39d0ff8c01346347551d71ab9",
	"2.6.3": "870459b277f3a28b3813971b4353695f77d682288852edd42ef39e013e6f37bf",
	"2.6.2": "f5f1cc842800a5a44bff556a277be5b1eb75e662d146c9144d85afaa115d4953",
	"2.6.1": "89ea9de43cfdde0bcb77c6c5ce4a927df9faaed877b41364c131daf22a7b58ea",
	"2.6.0": "807d99fe82511dd7362ff0eee7d997ce4c196894d8471eff4993707fa5e8378c",
}

// KnownChecksums returns a copy of the pinned launcher checksums keyed by version.
func KnownChecksums() map[string]string {
	return maps.Clone(knownChecksums)
}

// releaseTags maps versions whose release tag is not the full version.
var releaseTags = map[string]string{
	"2.7.0": "2.7",
	"2.6.0": "2.6",
}

const versionPlaceholder = "{version}"

// ReleaseURL expands the release archive URL template for version.
func ReleaseURL(template, version string) string {
	tag := version
	if t, ok := releaseTags[version]; ok {
		tag = t
	}
	return strings.ReplaceAll(template, versionPlaceholder, tag)
}
