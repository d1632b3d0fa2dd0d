package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// DeployHost is one virtual machine to provision.
type DeployHost struct {
	Hostname    string
	Category    Category
	OS          string
	Windows     bool
	Resources   ResourceQuantity
	StorageTier StorageTier
	Note        string
}

// DeployScriptData is the input of the deployment script template.
type DeployScriptData struct {
	Project     string
	GeneratedAt string
	Hosts       []DeployHost
}

var hostnameUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// BuildDeployHosts expands infrastructure items into one host per billed unit.
// Hostnames are derived from the display name (or category) plus a counter.
// Items stored before MaxQuantity existed are expanded to at most MaxQuantity hosts.
func BuildDeployHosts(items []InfrastructureItem) []DeployHost {
	var hosts []DeployHost
	seen := make(map[string]int)
	for _, it := range items {
		base := it.DisplayName
		if base == "" {
			base = string(it.Category)
		}
		base = strings.Trim(hostnameUnsafe.ReplaceAllString(strings.ToLower(base), "-"), "-")
		if base == "" {
			base = "host"
		}

		res := ParseConfig(it.ConfigurationText)
		for i := 0; i < min(it.EffectiveQuantity(), MaxQuantity); i++ {
			seen[base]++
			hosts = append(hosts, DeployHost{
				Hostname:    fmt.Sprintf("%s-%02d", base, seen[base]),
				Category:    it.Category,
				OS:          it.OperatingSystem,
				Windows:     IsWindows(it.OperatingSystem),
				Resources:   res,
				StorageTier: it.StorageTier,
				Note:        strings.Join(strings.Fields(it.Note), " "),
			})
		}
	}
	return hosts
}

var deployScriptTmpl = template.Must(template.New("deploy").Funcs(template.FuncMap{
	"quote": shellQuote,
}).Parse(`#!/usr/bin/env bash
# Provisioning script for {{ .Project | quote }}
# Generated {{ .GeneratedAt }} - review sizes before running.
set -euo pipefail

: "${PROVISION_CMD:=echo provision}"

provision() {
  local name="$1" cpu="$2" ram_gb="$3" disk_gb="$4" tier="$5" os="$6"
  $PROVISION_CMD --name "$name" --vcpu "$cpu" --memory "${ram_gb}G" \
    --disk "${disk_gb}G" --storage-class "$tier" --image "$os"
}
{{ range .Hosts }}
# {{ .Category }}{{ if .Note }}: {{ .Note }}{{ end }}{{ if .Windows }} (Windows licence){{ end }}
provision {{ .Hostname | quote }} {{ .Resources.CPUCores }} {{ .Resources.RAMGigabytes }} {{ .Resources.StorageGigabytes }} {{ printf "%s" .StorageTier | quote }} {{ .OS | quote }}
{{- end }}

echo "Provisioned {{ len .Hosts }} host(s)."
`))

// GenerateDeployScript renders a bash provisioning script with one
// provision call per host.
func GenerateDeployScript(data DeployScriptData) ([]byte, error) {
	var buf bytes.Buffer
	if err := deployScriptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render deploy script: %w", err)
	}
	return buf.Bytes(), nil
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
