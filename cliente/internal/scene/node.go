// Package scene contém o grafo de cena do cliente, os recursos de GPU que cada
// visual possui e o registro que liga ids lógicos às suas representações vivas.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape define o que o backend deve desenhar para um nó.
type Shape int

const (
	ShapeGroup   Shape = iota // Apenas transforma os filhos
	ShapeBox                  // Caixa sólida de tamanho Size
	ShapeWireBox              // Caixa de contorno (debug)
	ShapePlane                // Plano XY de tamanho Size
	ShapeMesh                 // Geometria arbitrária (chunks)
	ShapeLabel                // Texto (nametags)
)

// EulerOrder define a ordem de aplicação das rotações de Rotation.
type EulerOrder int

const (
	OrderXYZ EulerOrder = iota
	OrderZYX
)

// Node é um nó do grafo de cena.
type Node struct {
	Name  string
	Shape Shape

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler em radianos
	Order    EulerOrder
	Scale    mgl32.Vec3

	// Orientation substitui Rotation quando HasOrientation for verdadeiro.
	Orientation    mgl32.Quat
	HasOrientation bool

	Size   mgl32.Vec3 // Dimensões de caixas e planos
	Offset mgl32.Vec3 // Deslocamento da geometria em relação à origem do nó

	Visible     bool
	Billboard   bool
	RenderOrder int
	Spin        float32 // Radianos por segundo em Y
	Tint        color.NRGBA

	Material *Material
	Geometry *Geometry
	Label    *Label

	parent   *Node
	children []*Node
}

// NewNode cria um nó visível com escala unitária.
func NewNode(name string, shape Shape) *Node {
	return &Node{
		Name:    name,
		Shape:   shape,
		Scale:   mgl32.Vec3{1, 1, 1},
		Visible: true,
		Tint:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// NewGroup cria um nó de agrupamento.
func NewGroup(name string) *Node {
	return NewNode(name, ShapeGroup)
}

// NewBox cria uma caixa com o material indicado.
func NewBox(name string, size mgl32.Vec3, mat *Material) *Node {
	n := NewNode(name, ShapeBox)
	n.Size = size
	n.Material = mat
	return n
}

// Add anexa child a n, removendo-o do pai anterior.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove desanexa child de n. Retorna false se não era filho.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveFromParent desanexa o nó do seu pai, se houver.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Parent retorna o pai do nó.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children retorna os filhos diretos. O slice não deve ser modificado.
func (n *Node) Children() []*Node {
	return n.children
}

// Child retorna o primeiro filho direto com o nome dado.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find busca em profundidade (incluindo o próprio nó) o primeiro nó com o nome dado.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Traverse visita n e todos os descendentes em pré-ordem.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// SetUniformScale define a mesma escala nos três eixos.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = mgl32.Vec3{s, s, s}
}

// SetShown usa escala zero para esconder um osso sem afetar a visibilidade dos filhos.
func (n *Node) SetShown(shown bool) {
	if shown {
		n.SetUniformScale(1)
	} else {
		n.SetUniformScale(0)
	}
}

// LocalMatrix retorna T * R * S do nó.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.rotationMatrix()).Mul4(s)
}

func (n *Node) rotationMatrix() mgl32.Mat4 {
	if n.HasOrientation {
		return n.Orientation.Mat4()
	}
	rx := mgl32.HomogRotate3DX(n.Rotation.X())
	ry := mgl32.HomogRotate3DY(n.Rotation.Y())
	rz := mgl32.HomogRotate3DZ(n.Rotation.Z())
	if n.Order == OrderZYX {
		return rz.Mul4(ry).Mul4(rx)
	}
	return rx.Mul4(ry).Mul4(rz)
}

// WorldMatrix acumula as transformações de todos os ancestrais.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldVisible é verdadeiro se o nó e todos os ancestrais estão visíveis.
func (n *Node) WorldVisible() bool {
	for c := n; c != nil; c = c.parent {
		if !c.Visible {
			return false
		}
	}
	return true
}
