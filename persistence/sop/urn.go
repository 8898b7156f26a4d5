package sop

import (
	"fmt"
	"strings"

	"github.com/surroundaustralia/rdfx/persistence"
)

// URN schemes used by the ontology platform's asset model.
const (
	masterPrefix = "urn:x-evn-master:"
	tagPrefix    = "urn:x-evn-tag:"
	tagsPrefix   = "urn:x-tags:"
)

// IsMasterURN reports whether urn names a top-level datagraph,
// manifest or vocabulary asset.
func IsMasterURN(urn string) bool {
	return strings.HasPrefix(urn, masterPrefix)
}

// IsTagURN reports whether urn names a workflow (working copy) graph.
func IsTagURN(urn string) bool {
	return strings.HasPrefix(urn, tagPrefix)
}

// MasterFromTag derives the parent MasterURN from a TagURN. The
// derivation is a pure string transform: the first three
// colon-segments with the scheme swapped. It is one-way; many tags can
// reference one master.
func MasterFromTag(urn string) (string, error) {
	id, _, _, err := splitTag(urn)
	if err != nil {
		return "", err
	}
	return masterPrefix + id, nil
}

// TagIdentifier derives the tag id (urn:x-tags:<workflowName>) from a
// TagURN. Like MasterFromTag it is a pure string transform.
func TagIdentifier(urn string) (string, error) {
	_, workflow, _, err := splitTag(urn)
	if err != nil {
		return "", err
	}
	return tagsPrefix + workflow, nil
}

// buildTagURN assembles the TagURN for a workflow on a master graph:
// the master URN with its scheme swapped, then workflow and user
// segments.
func buildTagURN(masterURN, workflow, user string) string {
	return strings.Replace(masterURN, "x-evn-master", "x-evn-tag", 1) + ":" + workflow + ":" + user
}

// splitTag decomposes urn:x-evn-tag:<datagraphId>:<workflowName>:<user>.
func splitTag(urn string) (datagraphID, workflow, user string, err error) {
	if !IsTagURN(urn) {
		return "", "", "", fmt.Errorf("%w: %q is not a workflow URN (expected %s prefix)", persistence.ErrInvalidConfiguration, urn, tagPrefix)
	}
	parts := strings.Split(strings.TrimPrefix(urn, tagPrefix), ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: workflow URN %q must have datagraph, workflow and user segments", persistence.ErrInvalidConfiguration, urn)
	}
	return parts[0], parts[1], parts[2], nil
}
