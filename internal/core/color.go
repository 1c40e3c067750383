package core

// Color is the foreground color of a screen cell.
// The platform layer maps each value to an ANSI 256-color code.
type Color uint8

// Colors by role. The renderer never picks raw palette entries.
const (
	ColorDefault Color = iota
	ColorTrack         // ground tiles
	ColorTileEdge      // tile seams
	ColorWall          // obstacles
	ColorCoin          // collectibles
	ColorPlayer        // the player marker on the track
	ColorSuit          // astronaut joints
	ColorBone          // limbs between joints
	ColorHUD           // score line
	ColorWarn          // pause / game over banners
	ColorDim           // hints
)
