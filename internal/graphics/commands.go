package graphics

// CmdKind classifies a recorded draw command.
type CmdKind int

const (
	CmdMesh CmdKind = iota
	CmdSkybox
	CmdPass // full-screen or framebuffer pass (HDR, blur, composite)
	CmdGUIBegin
	CmdPanel
	CmdGUIEnd
)

func (k CmdKind) String() string {
	switch k {
	case CmdMesh:
		return "mesh"
	case CmdSkybox:
		return "skybox"
	case CmdPass:
		return "pass"
	case CmdGUIBegin:
		return "gui_begin"
	case CmdPanel:
		return "panel"
	case CmdGUIEnd:
		return "gui_end"
	}
	return "unknown"
}

// Uniforms are the shader inputs bound for one command.
type Uniforms map[string]any

// DrawCmd is one entry in the frame's command list. Target names the model,
// skybox, pass or panel the command draws.
type DrawCmd struct {
	Kind     CmdKind
	Target   string
	Shader   string
	Model    Mat4
	Uniforms Uniforms
}
