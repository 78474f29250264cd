package genealogy

// Position of a node under its tree parent
type Position string

const (
	PositionRoot  Position = "root"
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Member is the member view the tree engine needs. SponsorID is the
// recruiting sponsor recorded at registration; it is not necessarily the
// tree parent once spillover placement happens.
type Member struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Status          string `json:"status"`
	SponsorID       string `json:"sponsor_id,omitempty"`
	ActivePackageID string `json:"active_package_id,omitempty"`
}

// TreeNode is one slot in the binary genealogy tree. SponsorID is the tree
// parent (empty on the root). Leg volumes accumulate purchase amounts from
// the corresponding subtree and are drained by pairing.
type TreeNode struct {
	MemberID       string   `json:"member_id"`
	SponsorID      string   `json:"sponsor_id,omitempty"`
	Position       Position `json:"position"`
	Depth          int      `json:"depth"`
	LeftChildID    string   `json:"left_child_id,omitempty"`
	RightChildID   string   `json:"right_child_id,omitempty"`
	LeftLegVolume  int64    `json:"left_leg_volume"`
	RightLegVolume int64    `json:"right_leg_volume"`
}

// NodeInfo is a tree node joined with its member, as returned by the
// downline and tree queries.
type NodeInfo struct {
	TreeNode
	Member *Member `json:"member,omitempty"`
}

// UplineEntry is one ancestor on the walk from a member to the root.
type UplineEntry struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Status          string   `json:"status"`
	ActivePackageID string   `json:"active_package_id,omitempty"`
	Position        Position `json:"position"`
	Depth           int      `json:"depth"`
}
