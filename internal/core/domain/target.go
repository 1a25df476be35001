package domain

import "strings"

// CompilerFamily selects the GNU-only or the GNU+LLVM build path.
type CompilerFamily string

const (
	// FamilyGNU builds GCC as the end-user compiler.
	FamilyGNU CompilerFamily = "gnu"
	// FamilyLLVM builds Clang/LLVM, keeping GCC stage 1 only for libgcc.
	FamilyLLVM CompilerFamily = "llvm"
)

// ParseCompilerFamily maps a user supplied name to a CompilerFamily.
func ParseCompilerFamily(s string) (CompilerFamily, error) {
	switch CompilerFamily(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyGNU, "":
		return FamilyGNU, nil
	case FamilyLLVM, "clang":
		return FamilyLLVM, nil
	default:
		return "", ErrUnsupportedFamily
	}
}

// LibC is the kind of target C library.
type LibC string

const (
	// LibCNewlib is the full newlib.
	LibCNewlib LibC = "newlib"
	// LibCNewlibNano is newlib with the reduced nano archives installed alongside.
	LibCNewlibNano LibC = "newlib-nano"
	// LibCAVR is avr-libc, which brings its own configure conventions.
	LibCAVR LibC = "avr-libc"
)

// ParseLibC validates a user supplied C library name.
func ParseLibC(s string) (LibC, error) {
	l := LibC(strings.TrimSpace(s))
	switch l {
	case LibCNewlib, LibCNewlibNano, LibCAVR:
		return l, nil
	default:
		return "", ErrUnsupportedLibC
	}
}

// IsNewlib reports whether the library is built from the newlib tree.
func (l LibC) IsNewlib() bool {
	return l == LibCNewlib || l == LibCNewlibNano
}

// TargetProfile is the per-triplet default configuration.
// Empty string fields mean "not applicable": no configure flag is emitted for them.
type TargetProfile struct {
	Triplet      string `yaml:"triplet" json:"triplet"`
	Arch         string `yaml:"arch,omitempty" json:"arch,omitempty"`
	ABI          string `yaml:"abi,omitempty" json:"abi,omitempty"`
	CPU          string `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	ISASpec      string `yaml:"isa_spec,omitempty" json:"isa_spec,omitempty"`
	Mode         string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Float        string `yaml:"float,omitempty" json:"float,omitempty"`
	Endian       string `yaml:"endian,omitempty" json:"endian,omitempty"`
	LibC         LibC   `yaml:"libc" json:"libc"`
	LLVMArch     string `yaml:"llvm_arch,omitempty" json:"llvm_arch,omitempty"`
	Experimental bool   `yaml:"experimental,omitempty" json:"experimental,omitempty"`
	TargetCFlags string `yaml:"target_cflags,omitempty" json:"target_cflags,omitempty"`
}

// ShortName is the leading component of the triplet, used for directory labels.
func (p TargetProfile) ShortName() string {
	return ShortName(p.Triplet)
}

// ShortName returns the leading component of triplet, e.g. riscv32 for riscv32-unknown-elf.
func ShortName(triplet string) string {
	name, _, _ := strings.Cut(triplet, "-")
	return name
}

// Overrides holds user supplied values for profile fields.
// A nil field means the catalog default applies.
type Overrides struct {
	Arch         *string
	ABI          *string
	CPU          *string
	ISASpec      *string
	Mode         *string
	Float        *string
	Endian       *string
	LibC         *LibC
	LLVMArch     *string
	Experimental *bool
	TargetCFlags *string
}

// Apply returns a copy of p with every non-nil override applied.
func (o Overrides) Apply(p TargetProfile) TargetProfile {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}

	set(&p.Arch, o.Arch)
	set(&p.ABI, o.ABI)
	set(&p.CPU, o.CPU)
	set(&p.ISASpec, o.ISASpec)
	set(&p.Mode, o.Mode)
	set(&p.Float, o.Float)
	set(&p.Endian, o.Endian)
	set(&p.LLVMArch, o.LLVMArch)
	set(&p.TargetCFlags, o.TargetCFlags)

	if o.LibC != nil {
		p.LibC = *o.LibC
	}
	if o.Experimental != nil {
		p.Experimental = *o.Experimental
	}

	return p
}
